package worker

// email_worker.go
// Processes email jobs from QueueEmail through the SMTP circuit breaker.

import (
	"context"
	"encoding/json"
	"errors"

	"fiadopos/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// Sender is satisfied by *infra.Mailer.
type Sender interface {
	EnviarDocumento(to, subject, body, pdfPath string) error
}

type EmailWorker struct {
	mailer Sender
	cb     *infra.CircuitBreaker
}

func NewEmailWorker(mailer Sender, cb *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb}
}

// Process implements Handler. Delivery failures return an error so the pool
// retries; an open breaker counts as a failure too.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email: skipping")
		return nil
	}

	err := w.cb.Execute(func() error {
		return w.mailer.EnviarDocumento(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
	})
	if errors.Is(err, infra.ErrMailerNoConfigurado) {
		log.Warn().Str("to", payload.ToEmail).Msg("email_worker: SMTP not configured, dropping")
		return nil
	}
	if err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Str("breaker", w.cb.State().String()).Msg("email_worker: failed to send email")
		return err
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: sent")
	return nil
}
