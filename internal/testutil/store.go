// Package testutil содержит заглушки в памяти для репозиториев,
// менеджера транзакций и внешних получателей.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"repair-tracker/internal/entities"
	"repair-tracker/internal/repositories"
	apperrors "repair-tracker/pkg/errors"
)

// Store хранит заявки и статусы в памяти. RunInTransaction при ошибке fn
// восстанавливает прежнее состояние, как откат в базе.
type Store struct {
	mu          sync.Mutex
	txMu        sync.Mutex
	quotes      []entities.Quote
	entries     []entities.StatusEntry
	nextQuoteID uint64
	nextEntryID uint64

	Now func() time.Time

	// FailStatusInsert, если задан, вернется из следующей вставки статуса.
	FailStatusInsert error
	// Lookups считает вызовы FindByTrackingCode.
	Lookups int
}

func NewStore() *Store {
	return &Store{Now: time.Now}
}

func (s *Store) Quotes() repositories.QuoteRepositoryInterface { return quoteRepo{s} }

func (s *Store) Statuses() repositories.StatusEntryRepositoryInterface { return statusRepo{s} }

func (s *Store) TxManager() repositories.TxManagerInterface { return txManager{s} }

// QuoteCount и EntryCount показывают закоммиченное состояние.
func (s *Store) QuoteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.quotes)
}

func (s *Store) EntryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries возвращает историю quoteID в порядке вставки.
func (s *Store) Entries(quoteID uint64) []entities.StatusEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.StatusEntry
	for _, e := range s.entries {
		if e.QuoteID == quoteID {
			out = append(out, e)
		}
	}
	return out
}

// AddEntry добавляет запись с заданным временем.
func (s *Store) AddEntry(quoteID uint64, message string, at time.Time) entities.StatusEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEntryID++
	e := entities.StatusEntry{ID: s.nextEntryID, QuoteID: quoteID, Message: message, CreatedAt: at}
	s.entries = append(s.entries, e)
	return e
}

// AddQuote вставляет заявку без статусов.
func (s *Store) AddQuote(q entities.Quote) entities.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextQuoteID++
	q.ID = s.nextQuoteID
	if q.CreatedAt.IsZero() {
		q.CreatedAt = s.Now()
	}
	s.quotes = append(s.quotes, q)
	return q
}

type txManager struct{ s *Store }

func (m txManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	m.s.mu.Lock()
	quotes := append([]entities.Quote(nil), m.s.quotes...)
	entries := append([]entities.StatusEntry(nil), m.s.entries...)
	nextQuoteID, nextEntryID := m.s.nextQuoteID, m.s.nextEntryID
	m.s.mu.Unlock()

	if err := fn(nil); err != nil {
		m.s.mu.Lock()
		m.s.quotes, m.s.entries = quotes, entries
		m.s.nextQuoteID, m.s.nextEntryID = nextQuoteID, nextEntryID
		m.s.mu.Unlock()
		return err
	}
	return nil
}

type quoteRepo struct{ s *Store }

func (r quoteRepo) Create(_ context.Context, _ pgx.Tx, q entities.Quote) (*entities.Quote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.quotes {
		if existing.TrackingCode == q.TrackingCode {
			return nil, apperrors.ErrConflict
		}
	}
	r.s.nextQuoteID++
	q.ID = r.s.nextQuoteID
	q.CreatedAt = r.s.Now()
	r.s.quotes = append(r.s.quotes, q)
	return &q, nil
}

func (r quoteRepo) FindByTrackingCode(_ context.Context, _ pgx.Tx, code string) (*entities.Quote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Lookups++
	for _, q := range r.s.quotes {
		if q.TrackingCode == code {
			found := q
			return &found, nil
		}
	}
	return nil, apperrors.ErrQuoteNotFound
}

// latest вызывается под mu.
func (s *Store) latest(quoteID uint64) (entities.StatusEntry, bool) {
	var best entities.StatusEntry
	found := false
	for _, e := range s.entries {
		if e.QuoteID != quoteID {
			continue
		}
		if !found || e.CreatedAt.After(best.CreatedAt) || (e.CreatedAt.Equal(best.CreatedAt) && e.ID > best.ID) {
			best, found = e, true
		}
	}
	return best, found
}

func (r quoteRepo) List(_ context.Context, f entities.QuoteFilter) ([]entities.QuoteSummary, uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []entities.QuoteSummary
	for _, q := range r.s.quotes {
		summary := entities.QuoteSummary{Quote: q}
		if e, ok := r.s.latest(q.ID); ok {
			summary.CurrentStatus.SetValid(e.Message)
			summary.StatusUpdatedAt.SetValid(e.CreatedAt)
		}
		if f.DeviceType.Valid && q.DeviceType != f.DeviceType.String {
			continue
		}
		if f.City.Valid && !strings.EqualFold(q.City, f.City.String) {
			continue
		}
		if f.Status.Valid && summary.CurrentStatus.String != f.Status.String {
			continue
		}
		if f.DateFrom.Valid && q.CreatedAt.Before(f.DateFrom.Time) {
			continue
		}
		if f.DateTo.Valid && q.CreatedAt.After(f.DateTo.Time) {
			continue
		}
		matched = append(matched, summary)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := uint64(len(matched))
	start := min(f.Offset, total)
	end := total
	if f.Limit > 0 {
		end = min(start+f.Limit, total)
	}
	return append([]entities.QuoteSummary{}, matched[start:end]...), total, nil
}

func (r quoteRepo) Stats(_ context.Context) (*entities.QuoteStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stats := &entities.QuoteStats{
		TotalQuotes:        uint64(len(r.s.quotes)),
		QuotesByDeviceType: map[string]uint64{},
		QuotesByCity:       map[string]uint64{},
		QuotesByStatus:     map[string]uint64{},
	}
	for _, q := range r.s.quotes {
		stats.QuotesByDeviceType[q.DeviceType]++
		stats.QuotesByCity[q.City]++
		if e, ok := r.s.latest(q.ID); ok {
			stats.QuotesByStatus[e.Message]++
		}
	}
	return stats, nil
}

type statusRepo struct{ s *Store }

func (r statusRepo) Create(_ context.Context, _ pgx.Tx, quoteID uint64, message string) (*entities.StatusEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.FailStatusInsert; err != nil {
		r.s.FailStatusInsert = nil
		return nil, err
	}
	r.s.nextEntryID++
	e := entities.StatusEntry{ID: r.s.nextEntryID, QuoteID: quoteID, Message: message, CreatedAt: r.s.Now()}
	r.s.entries = append(r.s.entries, e)
	return &e, nil
}

func (r statusRepo) FindLatestByQuoteID(_ context.Context, _ pgx.Tx, quoteID uint64) (*entities.StatusEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.latest(quoteID)
	if !ok {
		return nil, apperrors.ErrNoStatusHistory
	}
	return &e, nil
}

func (r statusRepo) FindByQuoteID(_ context.Context, quoteID uint64) ([]entities.StatusEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.StatusEntry, 0)
	for _, e := range r.s.entries {
		if e.QuoteID == quoteID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
