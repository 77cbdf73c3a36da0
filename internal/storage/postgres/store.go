// Package postgres reads a user's records directly from the finance backend's
// Postgres database. It never writes; soft-deleted rows are skipped.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tinoosan/finsight/internal/errs"
	"github.com/tinoosan/finsight/internal/ledger"
)

// Store holds a pgx connection pool. All methods are safe for concurrent use.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: database url: %v", errs.ErrInvalid, err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// Ids are selected as text so the store works whether the backend keys its
// tables with uuid or varchar columns.

// Accounts returns the user's accounts ordered by name.
func (s *Store) Accounts(ctx context.Context, userID uuid.UUID) ([]ledger.Account, error) {
	rows, err := s.pool.Query(ctx, `
		select id::text, coalesce(user_id::text, ''), name, currency, coalesce(color, ''), is_active
		from accounts
		where user_id::text = $1 and deleted_at is null
		order by lower(name)
	`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: query accounts: %w", errs.ErrUpstream, err)
	}
	defer rows.Close()
	out := make([]ledger.Account, 0)
	for rows.Next() {
		var id, user string
		var a ledger.Account
		if err := rows.Scan(&id, &user, &a.Name, &a.Currency, &a.Color, &a.Active); err != nil {
			return nil, fmt.Errorf("%w: scan account: %w", errs.ErrUpstream, err)
		}
		if a.ID, err = uuid.Parse(id); err != nil {
			s.skip("account", id, err)
			continue
		}
		a.UserID, _ = uuid.Parse(user)
		a.Currency = strings.ToUpper(strings.TrimSpace(a.Currency))
		out = append(out, a)
	}
	return out, wrapRowsErr(rows)
}

// Transactions returns the user's transactions ordered by due date.
func (s *Store) Transactions(ctx context.Context, userID uuid.UUID) ([]ledger.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		select id::text, coalesce(user_id::text, ''), coalesce(description, ''), amount, type,
		       coalesce(category_id::text, ''), account_id::text, due_date, competence_date,
		       is_paid, coalesce(observation, ''), coalesce(is_recurring, false),
		       coalesce(installments, 0), coalesce(current_installment, 0), coalesce(transfer_id::text, '')
		from transactions
		where user_id::text = $1 and deleted_at is null
		order by due_date asc, created_at asc
	`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: query transactions: %w", errs.ErrUpstream, err)
	}
	defer rows.Close()
	out := make([]ledger.Transaction, 0)
	for rows.Next() {
		var (
			id, user, category, account string
			due, competence             *time.Time
			t                           ledger.Transaction
			typ                         string
		)
		if err := rows.Scan(&id, &user, &t.Description, &t.Amount, &typ, &category, &account, &due, &competence,
			&t.Paid, &t.Observation, &t.Recurring, &t.Installments, &t.CurrentInstallment, &t.TransferID); err != nil {
			return nil, fmt.Errorf("%w: scan transaction: %w", errs.ErrUpstream, err)
		}
		if t.ID, err = uuid.Parse(id); err != nil {
			s.skip("transaction", id, err)
			continue
		}
		if t.AccountID, err = uuid.Parse(account); err != nil {
			s.skip("transaction", id, err)
			continue
		}
		t.UserID, _ = uuid.Parse(user)
		t.CategoryID, _ = uuid.Parse(category)
		t.Type = ledger.TransactionType(typ)
		t.DueDate = formatDate(due)
		t.CompetenceDate = formatDate(competence)
		out = append(out, t)
	}
	return out, wrapRowsErr(rows)
}

// Categories returns the user's categories ordered by name.
func (s *Store) Categories(ctx context.Context, userID uuid.UUID) ([]ledger.Category, error) {
	rows, err := s.pool.Query(ctx, `
		select id::text, coalesce(user_id::text, ''), name, coalesce(description, ''), type,
		       coalesce(color, ''), coalesce(icon, ''), coalesce(parent_id::text, ''), is_active
		from categories
		where user_id::text = $1 and deleted_at is null
		order by lower(name)
	`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: query categories: %w", errs.ErrUpstream, err)
	}
	defer rows.Close()
	out := make([]ledger.Category, 0)
	for rows.Next() {
		var id, user, typ, parent string
		var c ledger.Category
		if err := rows.Scan(&id, &user, &c.Name, &c.Description, &typ, &c.Color, &c.Icon, &parent, &c.Active); err != nil {
			return nil, fmt.Errorf("%w: scan category: %w", errs.ErrUpstream, err)
		}
		if c.ID, err = uuid.Parse(id); err != nil {
			s.skip("category", id, err)
			continue
		}
		c.UserID, _ = uuid.Parse(user)
		c.Type = ledger.CategoryType(typ)
		if p, err := uuid.Parse(parent); err == nil {
			c.ParentID = &p
		}
		out = append(out, c)
	}
	return out, wrapRowsErr(rows)
}

func (s *Store) skip(kind, id string, err error) {
	s.logger.Warn("skipping row with malformed id", "kind", kind, "id", id, "err", err)
}

func wrapRowsErr(rows pgx.Rows) error {
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrUpstream, err)
	}
	return nil
}

// formatDate renders a timestamp column the way the backend's JSON API does.
// A NULL column becomes an empty string, which matches no period.
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
