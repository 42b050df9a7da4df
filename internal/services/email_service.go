package services

import (
	"context"
	"fmt"
	"io"

	"github.com/prajwal-kadam12/reqgen/internal/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type EmailMessage struct {
	To             string
	Subject        string
	HTMLBody       string
	Attachment     []byte
	AttachmentName string
}

// EmailSender dispatches a single message. There is no retry; a failure
// surfaces directly to the caller.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type SMTPSender struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

func NewSMTPSender(cfg config.SMTPConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		logger: logger.With(zap.String("service", "email_sender")),
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	if len(msg.Attachment) > 0 {
		name := msg.AttachmentName
		if name == "" {
			name = "document.pdf"
		}
		m.Attach(name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(msg.Attachment)
			return err
		}))
	}

	dialer := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("Email sent",
		zap.String("to", msg.To),
		zap.Int("attachment_bytes", len(msg.Attachment)))
	return nil
}
