package service

import (
	"context"
	"fmt"

	"github.com/authify-io/authify/config"

	mail "github.com/wneessen/go-mail"
)

// Notifier delivers one-time passcodes to an account's email address.
// Delivery failures must be returned, never swallowed: the issuing operation
// reports them to the caller.
type Notifier interface {
	SendResetOtp(ctx context.Context, email, name, otp string) error
	SendVerifyOtp(ctx context.Context, email, name, otp string) error
}

type OtpMailer struct {
	client *mail.Client
	from   string
}

func NewOtpMailer(cfg *config.Config) (*OtpMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTP.Port),
		mail.WithTimeout(cfg.SMTP.Timeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTP.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTP.Username),
			mail.WithPassword(cfg.SMTP.Password),
		)
	}

	client, err := mail.NewClient(cfg.SMTP.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}

	return &OtpMailer{client: client, from: cfg.SMTP.From}, nil
}

func (m *OtpMailer) SendResetOtp(ctx context.Context, email, name, otp string) error {
	subject := "Your password reset code"
	body := fmt.Sprintf("Hi %s,\n\nYour password reset code is %s. It expires in 15 minutes.\n\nIf you did not request a reset, you can ignore this email.\n", name, otp)
	return m.send(ctx, email, subject, body)
}

func (m *OtpMailer) SendVerifyOtp(ctx context.Context, email, name, otp string) error {
	subject := "Verify your account"
	body := fmt.Sprintf("Hi %s,\n\nYour account verification code is %s. It expires in 24 hours.\n", name, otp)
	return m.send(ctx, email, subject, body)
}

func (m *OtpMailer) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}
