package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlain(t *testing.T) {
	raw, err := Build("shop@example.com", Message{To: "a@example.com", Subject: "Hi", Body: "hello"}, time.Unix(0, 0))
	require.NoError(t, err)
	s := string(raw)
	assert.Contains(t, s, "To: a@example.com\r\n")
	assert.Contains(t, s, "Content-Type: text/plain; charset=utf-8\r\n\r\nhello")
}

func TestBuildWithAttachment(t *testing.T) {
	m := Message{
		To:          "a@example.com",
		Subject:     "Invoice",
		Body:        "attached",
		Attachments: []Attachment{{Filename: "INV-1.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")}},
	}
	raw, err := Build("shop@example.com", m, time.Now())
	require.NoError(t, err)
	s := string(raw)
	assert.Contains(t, s, "multipart/mixed; boundary=")
	assert.Contains(t, s, `filename="INV-1.pdf"`)
	assert.Contains(t, s, "JVBERi0xLjM=")
}

func TestSMTPSend(t *testing.T) {
	var gotTo []string
	var gotAuth smtp.Auth
	s := NewSMTP("mail.local:25", "", "", "shop@example.com")
	s.send = func(_ string, a smtp.Auth, _ string, to []string, msg []byte) error {
		gotTo, gotAuth = to, a
		assert.True(t, strings.HasPrefix(string(msg), "From: shop@example.com"))
		return nil
	}
	require.NoError(t, s.Send(context.Background(), Message{To: "a@example.com", Body: "x"}))
	assert.Equal(t, []string{"a@example.com"}, gotTo)
	assert.Nil(t, gotAuth)

	s.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }
	assert.ErrorContains(t, s.Send(context.Background(), Message{To: "a@example.com"}), "refused")
}

func TestWrap76(t *testing.T) {
	out := wrap76(strings.Repeat("a", 160))
	lines := strings.Split(out, "\r\n")
	assert.Len(t, lines, 3)
	assert.Len(t, lines[0], 76)
}
