package helper

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func TestNewMailer(t *testing.T) {
	captureLog(t)

	if _, ok := NewMailer(SMTPConfig{}, false).(LogMailer); !ok {
		t.Error("no SMTP host should fall back to LogMailer")
	}
	cfg := SMTPConfig{Host: "smtp.example.com", Port: 587, From: "FeatureMe <no-reply@example.com>"}
	if _, ok := NewMailer(cfg, false).(*SMTPMailer); !ok {
		t.Error("SMTP host set should give an SMTPMailer")
	}
}

func TestLogMailerHidesBody(t *testing.T) {
	buf := captureLog(t)
	ctx := context.Background()

	LogMailer{}.Send(ctx, "a@example.com", "Reset", "your code is 123456")
	if strings.Contains(buf.String(), "123456") {
		t.Errorf("body leaked to the log: %q", buf.String())
	}

	buf.Reset()
	LogMailer{ShowBody: true}.Send(ctx, "a@example.com", "Reset", "your code is 123456")
	if !strings.Contains(buf.String(), "123456") {
		t.Errorf("body missing in dev log: %q", buf.String())
	}
}

func TestSMTPMessage(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "no-reply@example.com"})
	if _, err := m.message("alice@example.com", "Reset", "body"); err != nil {
		t.Fatalf("message: %v", err)
	}
	if _, err := m.message("not an address", "Reset", "body"); err == nil {
		t.Error("invalid recipient accepted")
	}

	bad := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", From: "@@"})
	if err := bad.Send(context.Background(), "alice@example.com", "Reset", "body"); err == nil {
		t.Error("invalid sender accepted")
	}
}
