package testutil

import (
	"context"
	"fmt"
	"sync"

	"repair-tracker/pkg/eventbus"
	"repair-tracker/pkg/mailer"
)

// SequenceGenerator отдает коды по порядку, потом возвращает ошибку.
type SequenceGenerator struct {
	mu    sync.Mutex
	codes []string
}

func NewSequenceGenerator(codes ...string) *SequenceGenerator {
	return &SequenceGenerator{codes: codes}
}

func (g *SequenceGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.codes) == 0 {
		return "", fmt.Errorf("no more codes")
	}
	code := g.codes[0]
	g.codes = g.codes[1:]
	return code, nil
}

// Publisher запоминает события, слушатели не запускаются.
type Publisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (p *Publisher) Publish(_ context.Context, event eventbus.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *Publisher) Events() []eventbus.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]eventbus.Event(nil), p.events...)
}

// Mailbox собирает отправленные письма. Если задан Err, каждая отправка падает.
type Mailbox struct {
	mu       sync.Mutex
	messages []mailer.Message
	Err      error
}

func (m *Mailbox) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *Mailbox) Messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.messages...)
}

// Recorder считает вызовы метрик.
type Recorder struct {
	mu       sync.Mutex
	Quotes   int
	Updates  int
	Failures map[string]int
}

func NewRecorder() *Recorder { return &Recorder{Failures: map[string]int{}} }

func (r *Recorder) QuoteSubmitted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Quotes++
}

func (r *Recorder) StatusUpdated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Updates++
}

func (r *Recorder) CollaboratorFailed(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures[name]++
}

func (r *Recorder) FailureCount(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Failures[name]
}
