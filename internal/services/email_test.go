package services

import (
	"context"
	"errors"
	"net"
	"net/smtp"
	"testing"
	"time"

	"github.com/dimitrije/securevault-api/internal/config"
	"github.com/dimitrije/securevault-api/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configuredSMTP() config.SMTPConfig {
	return config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     "587",
		Username: "user@example.com",
		Password: "password",
		From:     "noreply@example.com",
	}
}

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newCapturingEmailService(cfg config.SMTPConfig, sendErr error) (*EmailService, *[]capturedMail) {
	var sent []capturedMail
	svc := NewEmailService(cfg, logging.Discard())
	svc.sendMail = func(_ context.Context, addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, capturedMail{addr: addr, from: from, to: to, msg: string(msg)})
		return sendErr
	}
	return svc, &sent
}

func TestEmailService_IsConfigured_True(t *testing.T) {
	svc := NewEmailService(configuredSMTP(), logging.Discard())

	assert.True(t, svc.IsConfigured())
}

func TestEmailService_IsConfigured_MissingFields(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*config.SMTPConfig)
	}{
		{"host", func(c *config.SMTPConfig) { c.Host = "" }},
		{"username", func(c *config.SMTPConfig) { c.Username = "" }},
		{"password", func(c *config.SMTPConfig) { c.Password = "" }},
		{"from", func(c *config.SMTPConfig) { c.From = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := configuredSMTP()
			tc.mutate(&cfg)
			assert.False(t, NewEmailService(cfg, logging.Discard()).IsConfigured())
		})
	}
}

func TestEmailService_Send_NotConfiguredIsNoop(t *testing.T) {
	svc, sent := newCapturingEmailService(config.SMTPConfig{}, nil)

	err := svc.SendVerificationCode(context.Background(), "ana@example.com", "123456", PurposeSignup)

	assert.NoError(t, err)
	assert.Empty(t, *sent)
}

func TestEmailService_SendVerificationCode_Signup(t *testing.T) {
	svc, sent := newCapturingEmailService(configuredSMTP(), nil)

	err := svc.SendVerificationCode(context.Background(), "ana@example.com", "123456", PurposeSignup)

	require.NoError(t, err)
	require.Len(t, *sent, 1)
	mail := (*sent)[0]
	assert.Equal(t, "smtp.example.com:587", mail.addr)
	assert.Equal(t, "noreply@example.com", mail.from)
	assert.Equal(t, []string{"ana@example.com"}, mail.to)
	assert.Contains(t, mail.msg, "Subject: Verify your SecureVault account")
	assert.Contains(t, mail.msg, "<strong>123456</strong>")
	assert.Contains(t, mail.msg, "10 minutes")
}

func TestEmailService_SendVerificationCode_Resend(t *testing.T) {
	svc, sent := newCapturingEmailService(configuredSMTP(), nil)

	err := svc.SendVerificationCode(context.Background(), "ana@example.com", "654321", PurposeResend)

	require.NoError(t, err)
	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0].msg, "Subject: Your new SecureVault verification code")
	assert.Contains(t, (*sent)[0].msg, "654321")
}

func TestEmailService_Send_Failure(t *testing.T) {
	svc, _ := newCapturingEmailService(configuredSMTP(), errors.New("connection refused"))

	err := svc.SendVerificationCode(context.Background(), "ana@example.com", "123456", PurposeSignup)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestEmailService_Send_CancelledContext(t *testing.T) {
	svc, sent := newCapturingEmailService(configuredSMTP(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Send(ctx, "ana@example.com", "subject", "body")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, *sent)
}

func TestEmailService_Send_AddsDeadline(t *testing.T) {
	svc := NewEmailService(configuredSMTP(), logging.Discard())
	var deadline time.Time
	var hasDeadline bool
	svc.sendMail = func(ctx context.Context, _ string, _ smtp.Auth, _ string, _ []string, _ []byte) error {
		deadline, hasDeadline = ctx.Deadline()
		return nil
	}

	require.NoError(t, svc.Send(context.Background(), "ana@example.com", "subject", "body"))

	require.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(SMTPTimeout), deadline, 5*time.Second)
}

func TestEmailService_Send_StalledServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	// Accept connections but never send the SMTP greeting.
	accepted := make(chan net.Conn, 1)
	go func() {
		if conn, err := ln.Accept(); err == nil {
			accepted <- conn
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		select {
		case conn := <-accepted:
			_ = conn.Close()
		default:
		}
	})

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	cfg := configuredSMTP()
	cfg.Host, cfg.Port = host, port
	svc := NewEmailService(cfg, logging.Discard())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = svc.Send(ctx, "ana@example.com", "subject", "body")

	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
