package infra

import (
	"errors"
	"fmt"
	"net/smtp"

	"fiadopos/internal/config"

	"github.com/jordan-wright/email"
)

// ErrMailerNoConfigurado is returned when SMTP_HOST is empty.
var ErrMailerNoConfigurado = errors.New("mailer: SMTP no configurado")

// Mailer wraps SMTP configuration for sending emails with PDF attachments.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	remite   string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		remite:   fmt.Sprintf("%s <%s>", cfg.NombreNegocio, cfg.SMTPUser),
	}
}

func (m *Mailer) Configurado() bool { return m != nil && m.host != "" }

// EnviarDocumento mails body with an optional PDF attachment.
func (m *Mailer) EnviarDocumento(to, subject, body, pdfPath string) error {
	if !m.Configurado() {
		return ErrMailerNoConfigurado
	}
	e := email.NewEmail()
	e.From = m.remite
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
