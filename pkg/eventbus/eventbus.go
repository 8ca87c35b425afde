package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultListenerTimeout ограничивает время работы одного обработчика.
const DefaultListenerTimeout = 1 * time.Minute

// Event представляет собой любое событие в системе.
type Event interface {
	Name() string
}

// Listener - это обработчик (слушатель) событий.
type Listener func(ctx context.Context, event Event) error

// Bus - это наша шина событий.
type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	wg        sync.WaitGroup
	timeout   time.Duration
	logger    *zap.Logger
}

type Option func(*Bus)

// WithTimeout переопределяет DefaultListenerTimeout.
func WithTimeout(d time.Duration) Option {
	return func(b *Bus) { b.timeout = d }
}

// New создает новую шину событий.
func New(logger *zap.Logger, opts ...Option) *Bus {
	b := &Bus{
		listeners: make(map[string][]Listener),
		timeout:   DefaultListenerTimeout,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe подписывает слушателя на определенное событие.
func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish запускает каждого подписчика в своей горутине и сразу возвращается.
// Контекст обработчика не связан с контекстом запроса: ответ клиенту
// не ждет обработчиков, а отмена запроса их не прерывает.
func (b *Bus) Publish(_ context.Context, event Event) {
	b.mu.RLock()
	listeners := append([]Listener(nil), b.listeners[event.Name()]...)
	b.mu.RUnlock()

	eventName := event.Name()
	for _, listener := range listeners {
		b.wg.Add(1)
		go func(l Listener) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("panic in event listener", zap.String("event", eventName), zap.Any("panic", r))
				}
			}()

			ctxWithTimeout, cancel := context.WithTimeout(context.Background(), b.timeout)
			defer cancel()

			if err := l(ctxWithTimeout, event); err != nil {
				b.logger.Error("event listener failed",
					zap.String("event", eventName),
					zap.Error(err),
				)
			}
		}(listener)
	}
}

// Wait ждет завершения всех слушателей, запущенных Publish, или отмены ctx.
func (b *Bus) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
