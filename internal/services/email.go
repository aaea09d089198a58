package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"time"

	"github.com/dimitrije/securevault-api/internal/config"
)

// CodePurpose selects the copy of a verification email.
type CodePurpose string

const (
	PurposeSignup CodePurpose = "signup"
	PurposeResend CodePurpose = "resend"
)

// SMTPTimeout bounds one delivery when the caller's context has no deadline.
const SMTPTimeout = 30 * time.Second

type sendMailFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

type EmailService struct {
	cfg      config.SMTPConfig
	logger   *slog.Logger
	sendMail sendMailFunc
}

func NewEmailService(cfg config.SMTPConfig, logger *slog.Logger) *EmailService {
	return &EmailService{cfg: cfg, logger: logger, sendMail: sendMailContext}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

// Send delivers an HTML message. Without SMTP credentials it only logs.
func (s *EmailService) Send(ctx context.Context, to, subject, body string) error {
	if !s.IsConfigured() {
		s.logger.InfoContext(ctx, "smtp not configured, skipping email", "to", to, "subject", subject)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, SMTPTimeout)
		defer cancel()
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.From, to, subject, body)

	if err := s.sendMail(ctx, addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) SendVerificationCode(ctx context.Context, to string, code OTPCode, purpose CodePurpose) error {
	subject := "Verify your SecureVault account"
	intro := "Thanks for signing up for SecureVault."
	if purpose == PurposeResend {
		subject = "Your new SecureVault verification code"
		intro = "You asked for a new verification code. Earlier codes no longer work."
	}

	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Email verification</h2>
			<p>%s</p>
			<p>Your verification code is <strong>%s</strong>.</p>
			<p>It expires in %d minutes.</p>
		</body>
		</html>
	`, intro, code, int(OTPTTL.Minutes()))

	return s.Send(ctx, to, subject, body)
}

// sendMailContext is smtp.SendMail with the dial and the whole exchange
// bounded by ctx.
func sendMailContext(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return err
		}
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(a); err != nil {
				return err
			}
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
