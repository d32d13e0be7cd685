package helper

import (
	"context"
	"fmt"
	"log"

	"github.com/wneessen/go-mail"
)

// Mailer delivers transactional email such as password reset codes.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewMailer returns an SMTP mailer, or a LogMailer when no SMTP host is
// configured. Bodies are only logged when showBodies is set.
func NewMailer(cfg SMTPConfig, showBodies bool) Mailer {
	if cfg.Host == "" {
		log.Println("mail: SMTP_HOST is not set, emails (including password reset codes) will not be delivered")
		return LogMailer{ShowBody: showBodies}
	}
	return NewSMTPMailer(cfg)
}

// LogMailer writes mail to the log instead of delivering it.
type LogMailer struct {
	ShowBody bool
}

func (m LogMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.ShowBody {
		log.Printf("mail to=%s subject=%q\n%s", to, subject, body)
		return nil
	}
	log.Printf("mail to=%s subject=%q not delivered", to, subject)
	return nil
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) message(to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("mail from %q: %w", m.cfg.From, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("mail to %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg, err := m.message(to, subject, body)
	if err != nil {
		return err
	}
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
