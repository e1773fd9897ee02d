package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-ledger/audit/internal/model"
	"github.com/Astemirdum/library-ledger/pkg/kafka"
)

const eventsTableName = `events`

var (
	qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	eventColumns = []string{
		"id", "event_type", "cpf", "book_id", "loan_id", "due_at", "amount_cents", "position", "occurred_at",
	}
)

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

// Save is idempotent on the event id, redelivered messages are dropped.
func (r *repository) Save(ctx context.Context, ev model.Event) error {
	q, args, err := qb.Insert(eventsTableName).
		Columns(eventColumns...).
		Values(ev.ID, ev.Type, ev.CPF, ev.BookID, ev.LoanID, ev.DueAt, ev.AmountCents, ev.Position, ev.OccurredAt).
		Suffix("on conflict (id) do nothing").
		ToSql()
	if err != nil {
		return err
	}
	if _, err = r.db.Exec(ctx, q, args...); err != nil {
		return errors.Wrap(err, "insert event")
	}
	return nil
}

func (r *repository) History(ctx context.Context, cpf string, limit uint64) ([]model.Event, error) {
	q, args, err := qb.Select(eventColumns...).
		From(eventsTableName).
		Where(sq.Eq{"cpf": cpf}).
		OrderBy("occurred_at desc").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select events")
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Event])
}

func (r *repository) Stats(ctx context.Context) (model.Stats, error) {
	q, args, err := qb.Select("event_type", "count(*)", "coalesce(sum(amount_cents), 0)::bigint").
		From(eventsTableName).
		GroupBy("event_type").
		ToSql()
	if err != nil {
		return model.Stats{}, err
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return model.Stats{}, errors.Wrap(err, "select stats")
	}
	defer rows.Close()

	stats := model.Stats{ByType: make(map[kafka.EventType]int64)}
	for rows.Next() {
		var (
			typ          kafka.EventType
			count, cents int64
		)
		if err = rows.Scan(&typ, &count, &cents); err != nil {
			return model.Stats{}, err
		}
		stats.ByType[typ] = count
		stats.Total += count
		if typ == kafka.EventDebtSettled {
			stats.SettledCents = cents
		}
	}
	return stats, rows.Err()
}
