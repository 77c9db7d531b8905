// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (fake *fakeDialer) DialAndSend(messages ...*gomail.Message) error {
	fake.sent = append(fake.sent, messages...)
	return fake.err
}

/*
TestSMTPMailer_Send builds headers and both bodies.
*/
func TestSMTPMailer_Send(t *testing.T) {
	fake := &fakeDialer{}
	mailer := &SMTPMailer{from: "no-reply@vidtube.app", dialer: fake}

	err := mailer.Send(context.Background(), Message{
		To:      "alice@example.com",
		Subject: "Reset your password",
		Text:    "https://vidtube.app/reset?token=abc",
		HTML:    "<a href=\"https://vidtube.app/reset?token=abc\">reset</a>",
	})
	require.NoError(t, err)
	require.Len(t, fake.sent, 1)

	sent := fake.sent[0]
	assert.Equal(t, []string{"no-reply@vidtube.app"}, sent.GetHeader("From"))
	assert.Equal(t, []string{"alice@example.com"}, sent.GetHeader("To"))
	assert.Equal(t, []string{"Reset your password"}, sent.GetHeader("Subject"))

	var rendered bytes.Buffer
	_, err = sent.WriteTo(&rendered)
	require.NoError(t, err)
	assert.Contains(t, rendered.String(), "text/html")
}

/*
TestSMTPMailer_Errors wraps dialer failures and honours cancelled contexts.
*/
func TestSMTPMailer_Errors(t *testing.T) {
	dialErr := errors.New("connection refused")
	mailer := &SMTPMailer{from: "x@y.z", dialer: &fakeDialer{err: dialErr}}

	err := mailer.Send(context.Background(), Message{To: "a@b.c"})
	assert.ErrorIs(t, err, dialErr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, mailer.Send(ctx, Message{To: "a@b.c"}), context.Canceled)
}

/*
TestLogMailer_Send writes the link to the request logger.
*/
func TestLogMailer_Send(t *testing.T) {
	var output bytes.Buffer
	ctx := ctxutil.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&output, nil)))

	require.NoError(t, LogMailer{}.Send(ctx, Message{To: "a@b.c", Text: "link-123"}))
	assert.Contains(t, output.String(), "link-123")
}
