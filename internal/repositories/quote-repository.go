package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"repair-tracker/internal/entities"
	apperrors "repair-tracker/pkg/errors"
)

const (
	quoteTable  = "quotes"
	quoteFields = "id, tracking_code, full_name, email, phone, city, device_type, brand, model, issue_description, created_at"

	pgUniqueViolation = "23505"
)

// latestStatusJoin добавляет к каждой заявке ее текущий статус.
// Порядок created_at DESC, id DESC: при равных метках побеждает последняя вставка.
const latestStatusJoin = `LEFT JOIN LATERAL (
	SELECT su.status_message, su.created_at
	FROM repair_status_updates su
	WHERE su.quote_id = q.id
	ORDER BY su.created_at DESC, su.id DESC
	LIMIT 1
) s ON TRUE`

type QuoteRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, quote entities.Quote) (*entities.Quote, error)
	FindByTrackingCode(ctx context.Context, tx pgx.Tx, code string) (*entities.Quote, error)
	List(ctx context.Context, filter entities.QuoteFilter) ([]entities.QuoteSummary, uint64, error)
	Stats(ctx context.Context) (*entities.QuoteStats, error)
}

type quoteRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewQuoteRepository(storage *pgxpool.Pool, logger *zap.Logger) QuoteRepositoryInterface {
	return &quoteRepository{storage: storage, logger: logger}
}

func scanQuote(row pgx.Row) (*entities.Quote, error) {
	var q entities.Quote
	err := row.Scan(
		&q.ID, &q.TrackingCode, &q.FullName, &q.Email, &q.Phone, &q.City,
		&q.DeviceType, &q.Brand, &q.Model, &q.IssueDescription, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quoteRepository) Create(ctx context.Context, tx pgx.Tx, q entities.Quote) (*entities.Quote, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(quoteTable).
		Columns("tracking_code", "full_name", "email", "phone", "city", "device_type", "brand", "model", "issue_description").
		Values(q.TrackingCode, q.FullName, q.Email, q.Phone, q.City, q.DeviceType, q.Brand, q.Model, q.IssueDescription).
		Suffix("RETURNING " + quoteFields).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build quote insert: %w", err)
	}

	created, err := scanQuote(querierFor(r.storage, tx).QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			r.logger.Warn("tracking code collision", zap.String("constraint", pgErr.ConstraintName))
			return nil, fmt.Errorf("tracking code %s already taken: %w", q.TrackingCode, apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert quote: %w", err)
	}
	return created, nil
}

func (r *quoteRepository) FindByTrackingCode(ctx context.Context, tx pgx.Tx, code string) (*entities.Quote, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(quoteFields).From(quoteTable).Where(sq.Eq{"tracking_code": code}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build quote lookup: %w", err)
	}

	q, err := scanQuote(querierFor(r.storage, tx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to find quote %s: %w", code, err)
	}
	return q, nil
}

func applyQuoteFilter(b sq.SelectBuilder, f entities.QuoteFilter) sq.SelectBuilder {
	if f.DeviceType.Valid {
		b = b.Where(sq.Eq{"q.device_type": f.DeviceType.String})
	}
	if f.City.Valid {
		b = b.Where("LOWER(q.city) = LOWER(?)", f.City.String)
	}
	if f.Status.Valid {
		b = b.Where(sq.Eq{"s.status_message": f.Status.String})
	}
	if f.DateFrom.Valid {
		b = b.Where(sq.GtOrEq{"q.created_at": f.DateFrom.Time})
	}
	if f.DateTo.Valid {
		b = b.Where(sq.LtOrEq{"q.created_at": f.DateTo.Time})
	}
	return b
}

func (r *quoteRepository) List(ctx context.Context, f entities.QuoteFilter) ([]entities.QuoteSummary, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countQuery, countArgs, err := applyQuoteFilter(
		psql.Select("COUNT(*)").From(quoteTable+" q").JoinClause(latestStatusJoin), f,
	).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build quote count: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count quotes: %w", err)
	}
	if total == 0 {
		return []entities.QuoteSummary{}, 0, nil
	}

	builder := applyQuoteFilter(
		psql.Select(
			"q.id", "q.tracking_code", "q.full_name", "q.email", "q.phone", "q.city",
			"q.device_type", "q.brand", "q.model", "q.issue_description", "q.created_at",
			"s.status_message", "s.created_at",
		).From(quoteTable+" q").JoinClause(latestStatusJoin), f,
	).OrderBy("q.created_at DESC", "q.id DESC")
	if f.Limit > 0 {
		builder = builder.Limit(f.Limit)
	}
	if f.Offset > 0 {
		builder = builder.Offset(f.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build quote list: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	list := make([]entities.QuoteSummary, 0)
	for rows.Next() {
		var s entities.QuoteSummary
		if err := rows.Scan(
			&s.ID, &s.TrackingCode, &s.FullName, &s.Email, &s.Phone, &s.City,
			&s.DeviceType, &s.Brand, &s.Model, &s.IssueDescription, &s.CreatedAt,
			&s.CurrentStatus, &s.StatusUpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan quote: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

func (r *quoteRepository) Stats(ctx context.Context) (*entities.QuoteStats, error) {
	stats := &entities.QuoteStats{
		QuotesByDeviceType: map[string]uint64{},
		QuotesByCity:       map[string]uint64{},
		QuotesByStatus:     map[string]uint64{},
	}

	if err := r.storage.QueryRow(ctx, "SELECT COUNT(*) FROM "+quoteTable).Scan(&stats.TotalQuotes); err != nil {
		return nil, fmt.Errorf("failed to count quotes: %w", err)
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	groups := []struct {
		builder sq.SelectBuilder
		target  map[string]uint64
	}{
		{psql.Select("device_type", "COUNT(*)").From(quoteTable).GroupBy("device_type"), stats.QuotesByDeviceType},
		{psql.Select("city", "COUNT(*)").From(quoteTable).GroupBy("city"), stats.QuotesByCity},
		{
			psql.Select("s.status_message", "COUNT(*)").
				From(quoteTable + " q").
				JoinClause(latestStatusJoin).
				Where("s.status_message IS NOT NULL").
				GroupBy("s.status_message"),
			stats.QuotesByStatus,
		},
	}

	for _, g := range groups {
		query, args, err := g.builder.ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build stats query: %w", err)
		}
		if err := r.collectCounts(ctx, query, args, g.target); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

func (r *quoteRepository) collectCounts(ctx context.Context, query string, args []interface{}, target map[string]uint64) error {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to run stats query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n uint64
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("failed to scan stats row: %w", err)
		}
		target[key] = n
	}
	return rows.Err()
}
