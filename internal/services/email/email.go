// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jayam07/UrbanComm/internal/config"
	"github.com/Jayam07/UrbanComm/internal/i18n"
	"github.com/wneessen/go-mail"
)

// Service sends transactional mail via SMTP.
type Service struct {
	cfg         *config.SMTPConfig
	frontendURL string
}

// NewService creates a new email service. Activation links point at the
// storefront, which posts the embedded token back to the API.
func NewService(cfg *config.SMTPConfig, frontendURL string) (*Service, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &Service{
		cfg:         cfg,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
	}, nil
}

// ActivationURL builds the storefront link that carries the activation token
// as a path segment.
func (s *Service) ActivationURL(token string) string {
	return fmt.Sprintf("%s/seller/activation/%s", s.frontendURL, token)
}

// SendActivation delivers the activation link to a pending seller.
func (s *Service) SendActivation(ctx context.Context, name, toEmail, token string) error {
	subject := i18n.T(ctx, "activation_email_subject")
	body := i18n.TData(ctx, "activation_email_body", map[string]any{
		"Name":          name,
		"ActivationURL": s.ActivationURL(token),
	})

	return s.send(toEmail, subject, body)
}

// send sends an email via SMTP using go-mail.
func (s *Service) send(to, subject, body string) error {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	// Implicit TLS (SSL) for port 465, STARTTLS for others.
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
