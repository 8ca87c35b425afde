package mailer

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"repair-tracker/pkg/config"
)

func TestNew_PicksSender(t *testing.T) {
	_, isLog := New(config.MailConfig{}, zap.NewNop()).(*LogSender)
	assert.True(t, isLog)

	_, isSMTP := New(config.MailConfig{Host: "smtp.example.com", Port: 587}, zap.NewNop()).(*SMTPSender)
	assert.True(t, isSMTP)
}

func TestLogSender_Send(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewLogSender(zap.New(core))

	require.NoError(t, s.Send(context.Background(), Message{To: "john@example.com", Subject: "Status Update - QS-A7K9M2P5"}))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "john@example.com", entries[0].ContextMap()["to"])
}

func TestSMTPSender_CancelledContext(t *testing.T) {
	s := NewSMTPSender(config.MailConfig{Host: "127.0.0.1", Port: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Send(ctx, Message{To: "john@example.com"}), context.Canceled)
}

func TestSMTPSender_StalledServerHonoursDeadline(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	conns := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			conns <- conn // держим соединение и не отправляем приветствие
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		select {
		case conn := <-conns:
			_ = conn.Close()
		case <-time.After(time.Second):
		}
	})

	port := ln.Addr().(*net.TCPAddr).Port
	s := NewSMTPSender(config.MailConfig{Host: "127.0.0.1", Port: port, From: "info@qsolutions.com"})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = s.Send(ctx, Message{To: "john@example.com", Subject: "Quote received", Plain: "hello"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
