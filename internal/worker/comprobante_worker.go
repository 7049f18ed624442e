package worker

// comprobante_worker.go
// Generates PDF documents from QueueComprobantes: sale tickets, abono
// receipts and account statements. When the payload carries an email the
// PDF is handed to QueueEmail.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fiadopos/internal/infra"
	"fiadopos/internal/model"
	"fiadopos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	ComprobanteTicket       = "ticket"
	ComprobanteReciboAbono  = "recibo_abono"
	ComprobanteEstadoCuenta = "estado_cuenta"
)

// ComprobanteJobPayload is the job envelope sent to QueueComprobantes.
type ComprobanteJobPayload struct {
	Tipo         string  `json:"tipo"`
	VentaID      string  `json:"venta_id,omitempty"`
	AbonoID      string  `json:"abono_id,omitempty"`
	ClienteID    string  `json:"cliente_id,omitempty"`
	ClienteEmail *string `json:"cliente_email,omitempty"`
}

// ErrPayload marks payloads that will never succeed; they are logged and
// dropped instead of retried.
var ErrPayload = errors.New("payload invalido")

type ComprobanteWorker struct {
	ventas         repository.VentaRepository
	abonos         repository.AbonoRepository
	clientes       repository.ClienteRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
	negocio        string
}

func NewComprobanteWorker(
	ventas repository.VentaRepository,
	abonos repository.AbonoRepository,
	clientes repository.ClienteRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
	negocio string,
) *ComprobanteWorker {
	return &ComprobanteWorker{
		ventas:         ventas,
		abonos:         abonos,
		clientes:       clientes,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
		negocio:        negocio,
	}
}

// Process implements Handler.
func (w *ComprobanteWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ComprobanteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("comprobante_worker: invalid payload")
		return nil
	}

	path, asunto, err := w.Generar(ctx, payload)
	if errors.Is(err, ErrPayload) {
		log.Error().Err(err).Str("tipo", payload.Tipo).Msg("comprobante_worker: dropping job")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Str("tipo", payload.Tipo).Str("pdf", path).Msg("comprobante_worker: PDF generated")

	if payload.ClienteEmail == nil || *payload.ClienteEmail == "" || w.dispatcher == nil {
		return nil
	}
	emailJob := EmailJobPayload{
		ToEmail: *payload.ClienteEmail,
		Subject: fmt.Sprintf("%s: %s", w.negocio, asunto),
		Body:    "Adjuntamos su comprobante.\n\n" + w.negocio,
		PDFPath: path,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", *payload.ClienteEmail).Msg("comprobante_worker: failed to enqueue email")
	}
	return nil
}

// Generar writes the PDF for payload and returns its path and a subject line.
func (w *ComprobanteWorker) Generar(ctx context.Context, payload ComprobanteJobPayload) (string, string, error) {
	switch payload.Tipo {
	case ComprobanteTicket:
		venta, err := w.venta(ctx, payload.VentaID)
		if err != nil {
			return "", "", err
		}
		path, err := infra.GenerarTicketPDF(venta, w.negocio, w.pdfStoragePath)
		return path, "Ticket de venta", err

	case ComprobanteReciboAbono:
		venta, err := w.venta(ctx, payload.VentaID)
		if err != nil {
			return "", "", err
		}
		abonoID, err := uuid.Parse(payload.AbonoID)
		if err != nil {
			return "", "", fmt.Errorf("%w: abono_id %q", ErrPayload, payload.AbonoID)
		}
		abono, err := w.abonos.FindByID(ctx, abonoID)
		if err != nil {
			return "", "", fmt.Errorf("%w: abono %s: %v", ErrPayload, abonoID, err)
		}
		path, err := infra.GenerarReciboAbonoPDF(venta, abono, w.negocio, w.pdfStoragePath)
		return path, "Recibo de abono", err

	case ComprobanteEstadoCuenta:
		clienteID, err := uuid.Parse(payload.ClienteID)
		if err != nil {
			return "", "", fmt.Errorf("%w: cliente_id %q", ErrPayload, payload.ClienteID)
		}
		cliente, err := w.clientes.FindByID(ctx, clienteID)
		if err != nil {
			return "", "", fmt.Errorf("%w: cliente %s: %v", ErrPayload, clienteID, err)
		}
		abiertas, err := w.ventas.ListByCliente(ctx, clienteID, true)
		if err != nil {
			return "", "", err
		}
		deuda := decimal.Zero
		for _, v := range abiertas {
			deuda = deuda.Add(v.Resto)
		}
		path, err := infra.GenerarEstadoCuentaPDF(cliente, abiertas, deuda, w.negocio, w.pdfStoragePath)
		return path, "Estado de cuenta", err
	}
	return "", "", fmt.Errorf("%w: tipo %q", ErrPayload, payload.Tipo)
}

func (w *ComprobanteWorker) venta(ctx context.Context, id string) (*model.Venta, error) {
	ventaID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: venta_id %q", ErrPayload, id)
	}
	venta, err := w.ventas.FindByID(ctx, ventaID)
	if err != nil {
		// deleted before the job ran
		return nil, fmt.Errorf("%w: venta %s: %v", ErrPayload, ventaID, err)
	}
	return venta, nil
}
