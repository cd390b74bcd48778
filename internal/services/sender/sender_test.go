package services

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/user-hub/internal/lib/smtp"
)

type smtpClientMock struct {
	mailFrom string
	rcptTo   []string
	buf      bytes.Buffer
	quit     bool
	rcptErr  error
}

func (m *smtpClientMock) Mail(from string) error {
	m.mailFrom = from
	return nil
}

func (m *smtpClientMock) Rcpt(to string) error {
	if m.rcptErr != nil {
		return m.rcptErr
	}
	m.rcptTo = append(m.rcptTo, to)
	return nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func (m *smtpClientMock) Data() (io.WriteCloser, error) {
	return nopWriteCloser{&m.buf}, nil
}

func (m *smtpClientMock) Quit() error {
	m.quit = true
	return nil
}

func (m *smtpClientMock) Close() error { return nil }

type transportMock struct {
	client     *smtpClientMock
	connectErr error
}

func (m *transportMock) Connect() (smtp.Client, error) {
	if m.connectErr != nil {
		return nil, m.connectErr
	}
	return m.client, nil
}

func (m *transportMock) GetSMTPUser() string { return "noreply@example.com" }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSendWelcome(t *testing.T) {
	client := &smtpClientMock{}
	svc := NewSenderService(newNoopLogger(), &transportMock{client: client})

	err := svc.SendWelcome([]byte(`{"email":"a@x.com","username":"alice"}`))
	require.NoError(t, err)

	assert.Equal(t, "noreply@example.com", client.mailFrom)
	assert.Equal(t, []string{"a@x.com"}, client.rcptTo)
	assert.Contains(t, client.buf.String(), "alice")
	assert.Contains(t, client.buf.String(), "a@x.com")
	assert.True(t, client.quit)
}

func TestSendWelcome_InvalidBody(t *testing.T) {
	svc := NewSenderService(newNoopLogger(), &transportMock{client: &smtpClientMock{}})

	err := svc.SendWelcome([]byte("not a json"))
	require.Error(t, err)
}

func TestSendWelcome_ConnectError(t *testing.T) {
	svc := NewSenderService(newNoopLogger(), &transportMock{connectErr: errors.New("dial failed")})

	err := svc.SendWelcome([]byte(`{"email":"a@x.com"}`))
	require.Error(t, err)
}

func TestSendWelcome_RcptError(t *testing.T) {
	client := &smtpClientMock{rcptErr: errors.New("mailbox unavailable")}
	svc := NewSenderService(newNoopLogger(), &transportMock{client: client})

	err := svc.SendWelcome([]byte(`{"email":"a@x.com"}`))
	require.Error(t, err)
}
