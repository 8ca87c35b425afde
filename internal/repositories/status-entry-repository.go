package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"repair-tracker/internal/entities"
	apperrors "repair-tracker/pkg/errors"
)

const (
	statusEntryTable  = "repair_status_updates"
	statusEntryFields = "id, quote_id, status_message, created_at"
)

// StatusEntryRepositoryInterface - история статусов. Только вставка и чтение:
// записи не изменяются и не удаляются.
type StatusEntryRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, quoteID uint64, message string) (*entities.StatusEntry, error)
	FindLatestByQuoteID(ctx context.Context, tx pgx.Tx, quoteID uint64) (*entities.StatusEntry, error)
	FindByQuoteID(ctx context.Context, quoteID uint64) ([]entities.StatusEntry, error)
}

type statusEntryRepository struct {
	storage *pgxpool.Pool
}

func NewStatusEntryRepository(storage *pgxpool.Pool) StatusEntryRepositoryInterface {
	return &statusEntryRepository{storage: storage}
}

func scanStatusEntry(row pgx.Row) (*entities.StatusEntry, error) {
	var e entities.StatusEntry
	if err := row.Scan(&e.ID, &e.QuoteID, &e.Message, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *statusEntryRepository) Create(ctx context.Context, tx pgx.Tx, quoteID uint64, message string) (*entities.StatusEntry, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(statusEntryTable).
		Columns("quote_id", "status_message").
		Values(quoteID, message).
		Suffix("RETURNING " + statusEntryFields).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build status insert: %w", err)
	}

	entry, err := scanStatusEntry(querierFor(r.storage, tx).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to insert status for quote %d: %w", quoteID, err)
	}
	return entry, nil
}

// FindLatestByQuoteID возвращает текущий статус: самый новый created_at, затем наибольший id.
func (r *statusEntryRepository) FindLatestByQuoteID(ctx context.Context, tx pgx.Tx, quoteID uint64) (*entities.StatusEntry, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(statusEntryFields).
		From(statusEntryTable).
		Where(sq.Eq{"quote_id": quoteID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build latest status query: %w", err)
	}

	entry, err := scanStatusEntry(querierFor(r.storage, tx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoStatusHistory
		}
		return nil, fmt.Errorf("failed to find latest status for quote %d: %w", quoteID, err)
	}
	return entry, nil
}

// FindByQuoteID возвращает всю историю, от старых записей к новым.
func (r *statusEntryRepository) FindByQuoteID(ctx context.Context, quoteID uint64) ([]entities.StatusEntry, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(statusEntryFields).
		From(statusEntryTable).
		Where(sq.Eq{"quote_id": quoteID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build history query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for quote %d: %w", quoteID, err)
	}
	defer rows.Close()

	history := make([]entities.StatusEntry, 0)
	for rows.Next() {
		e, err := scanStatusEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status entry: %w", err)
		}
		history = append(history, *e)
	}
	return history, rows.Err()
}
