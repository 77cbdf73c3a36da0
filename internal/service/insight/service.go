// Package insight fetches per-user snapshots from a Source, caches them, and
// answers report queries over them.
package insight

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/tinoosan/finsight/internal/cache"
	"github.com/tinoosan/finsight/internal/errs"
	"github.com/tinoosan/finsight/internal/ledger"
	"github.com/tinoosan/finsight/internal/report"
)

// Source reads a user's records from wherever they live. Implementations
// must be safe for concurrent use.
type Source interface {
	Accounts(ctx context.Context, userID uuid.UUID) ([]ledger.Account, error)
	Transactions(ctx context.Context, userID uuid.UUID) ([]ledger.Transaction, error)
	Categories(ctx context.Context, userID uuid.UUID) ([]ledger.Category, error)
}

// Service answers report queries for a user.
type Service interface {
	Snapshot(ctx context.Context, userID uuid.UUID) (ledger.Snapshot, error)
	Summary(ctx context.Context, userID uuid.UUID, currency string, p report.Period) (report.PeriodSummary, error)
	Rollup(ctx context.Context, userID uuid.UUID, currency string, p report.Period, typ ledger.TransactionType) (report.CategoryBreakdown, error)
	Balances(ctx context.Context, userID uuid.UUID, currency string, activeOnly bool) (Balances, error)
	AccountBalance(ctx context.Context, userID, accountID uuid.UUID) (report.AccountBalance, error)
	Transactions(ctx context.Context, userID uuid.UUID, f report.TransactionFilter, page report.PageRequest) (report.TransactionPage, error)
	Series(ctx context.Context, userID uuid.UUID, currency string, year int) ([]report.SeriesPoint, error)
	Categories(ctx context.Context, userID uuid.UUID, typ ledger.CategoryType) ([]report.CategoryNode, error)
	Currencies(ctx context.Context, userID uuid.UUID) ([]string, error)
	// Invalidate drops the cached snapshot of one user and reports whether
	// one was cached.
	Invalidate(userID uuid.UUID) bool
	InvalidateAll()
}

// Balances is the per-account balance list plus totals for one currency.
type Balances struct {
	Currency       string
	Accounts       []report.AccountBalance
	TotalConfirmed int64
	TotalProjected int64
}

type service struct {
	src    Source
	cache  cache.Cache[uuid.UUID, ledger.Snapshot]
	group  singleflight.Group
	logger *slog.Logger
	now    func() time.Time

	// gens counts invalidations per user; epoch counts InvalidateAll calls.
	// A fetch only caches its result if neither moved while it ran.
	genMu sync.Mutex
	gens  map[uuid.UUID]uint64
	epoch uint64
}

// New wires a Service. A nil cache disables caching.
func New(src Source, c cache.Cache[uuid.UUID, ledger.Snapshot], logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{src: src, cache: c, logger: logger, now: time.Now, gens: make(map[uuid.UUID]uint64)}
}

type generation struct{ epoch, user uint64 }

func (s *service) currentGen(userID uuid.UUID) generation {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return generation{epoch: s.epoch, user: s.gens[userID]}
}

func (s *service) Snapshot(ctx context.Context, userID uuid.UUID) (ledger.Snapshot, error) {
	if userID == uuid.Nil {
		return ledger.Snapshot{}, fmt.Errorf("%w: user_id required", errs.ErrInvalid)
	}
	if s.cache != nil {
		if snap, ok := s.cache.Get(userID); ok {
			cacheLookups.WithLabelValues("hit").Inc()
			return snap, nil
		}
		cacheLookups.WithLabelValues("miss").Inc()
	}
	v, err, _ := s.group.Do(userID.String(), func() (any, error) {
		gen := s.currentGen(userID)
		snap, err := s.fetch(context.WithoutCancel(ctx), userID)
		if err != nil {
			return ledger.Snapshot{}, err
		}
		if s.cache != nil && s.currentGen(userID) == gen {
			s.cache.Set(userID, snap)
		}
		return snap, nil
	})
	if err != nil {
		return ledger.Snapshot{}, err
	}
	return v.(ledger.Snapshot), nil
}

// fetch reads the three collections in parallel and drops invalid records.
func (s *service) fetch(ctx context.Context, userID uuid.UUID) (ledger.Snapshot, error) {
	start := s.now()
	var (
		accounts     []ledger.Account
		transactions []ledger.Transaction
		categories   []ledger.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.src.Accounts(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch accounts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		transactions, err = s.src.Transactions(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.src.Categories(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		snapshotFetchDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		s.logger.Error("snapshot fetch failed", "user_id", userID, "err", err)
		return ledger.Snapshot{}, err
	}
	snapshotFetchDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	snap := ledger.Snapshot{
		UserID:       userID,
		Accounts:     keepValid(s.logger, "account", accounts),
		Transactions: keepValid(s.logger, "transaction", transactions),
		Categories:   keepValid(s.logger, "category", categories),
		FetchedAt:    s.now().UTC(),
	}
	for i := range snap.Accounts {
		snap.Accounts[i].Currency, _ = ledger.NormalizeCurrency(snap.Accounts[i].Currency)
	}
	s.logger.Debug("snapshot fetched",
		"user_id", userID,
		"accounts", len(snap.Accounts),
		"transactions", len(snap.Transactions),
		"categories", len(snap.Categories),
	)
	return snap, nil
}

type validatable interface {
	Validate() error
}

func keepValid[T validatable](logger *slog.Logger, kind string, in []T) []T {
	out := make([]T, 0, len(in))
	for i, rec := range in {
		if err := rec.Validate(); err != nil {
			invalidRecords.WithLabelValues(kind).Inc()
			logger.Warn("dropping invalid record", "kind", kind, "index", i, "err", err)
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (s *service) Summary(ctx context.Context, userID uuid.UUID, currency string, p report.Period) (report.PeriodSummary, error) {
	cur, err := ledger.NormalizeCurrency(currency)
	if err != nil {
		return report.PeriodSummary{}, err
	}
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return report.PeriodSummary{}, err
	}
	return report.Summarize(snap, cur, p), nil
}

func (s *service) Rollup(ctx context.Context, userID uuid.UUID, currency string, p report.Period, typ ledger.TransactionType) (report.CategoryBreakdown, error) {
	cur, err := ledger.NormalizeCurrency(currency)
	if err != nil {
		return report.CategoryBreakdown{}, err
	}
	if err := typ.Validate(); err != nil {
		return report.CategoryBreakdown{}, err
	}
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return report.CategoryBreakdown{}, err
	}
	return report.Rollup(snap, cur, p, typ), nil
}

// Balances lists account balances. An empty currency lists every account;
// totals are only summed when a currency is given.
func (s *service) Balances(ctx context.Context, userID uuid.UUID, currency string, activeOnly bool) (Balances, error) {
	var cur string
	if currency != "" {
		var err error
		if cur, err = ledger.NormalizeCurrency(currency); err != nil {
			return Balances{}, err
		}
	}
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return Balances{}, err
	}
	accounts := report.AccountsIn(snap.Accounts, cur, activeOnly)
	out := Balances{Currency: cur, Accounts: report.AccountBalances(accounts, snap.Transactions)}
	if cur != "" {
		out.TotalConfirmed = report.ToMinorUnits(report.TotalBalance(accounts, snap.Transactions, report.Confirmed))
		out.TotalProjected = report.ToMinorUnits(report.TotalBalance(accounts, snap.Transactions, report.Projected))
	}
	return out, nil
}

func (s *service) AccountBalance(ctx context.Context, userID, accountID uuid.UUID) (report.AccountBalance, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return report.AccountBalance{}, err
	}
	acc, ok := snap.AccountIndex()[accountID]
	if !ok {
		return report.AccountBalance{}, fmt.Errorf("account %s: %w", accountID, errs.ErrNotFound)
	}
	return report.AccountBalance{
		Account:   acc,
		Confirmed: report.ConfirmedBalance(accountID, snap.Transactions),
		Projected: report.ProjectedBalance(accountID, snap.Transactions),
	}, nil
}

func (s *service) Transactions(ctx context.Context, userID uuid.UUID, f report.TransactionFilter, page report.PageRequest) (report.TransactionPage, error) {
	if f.Type != "" {
		if err := f.Type.Validate(); err != nil {
			return report.TransactionPage{}, err
		}
	}
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return report.TransactionPage{}, err
	}
	return report.ListTransactions(snap, f, page), nil
}

func (s *service) Series(ctx context.Context, userID uuid.UUID, currency string, year int) ([]report.SeriesPoint, error) {
	cur, err := ledger.NormalizeCurrency(currency)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return report.MonthlySeries(snap, cur, year), nil
}

func (s *service) Categories(ctx context.Context, userID uuid.UUID, typ ledger.CategoryType) ([]report.CategoryNode, error) {
	if typ != "" {
		if err := typ.Validate(); err != nil {
			return nil, err
		}
	}
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return report.CategoryTree(snap.Categories, typ), nil
}

func (s *service) Currencies(ctx context.Context, userID uuid.UUID) ([]string, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return report.Currencies(snap.Accounts), nil
}

// Invalidate also stops an in-flight fetch from caching its result and
// detaches later callers from it, so they read the source again.
func (s *service) Invalidate(userID uuid.UUID) bool {
	s.genMu.Lock()
	s.gens[userID]++
	s.genMu.Unlock()
	s.group.Forget(userID.String())
	if s.cache == nil {
		return false
	}
	ok := s.cache.Delete(userID)
	s.logger.Debug("snapshot invalidated", "user_id", userID, "cached", ok)
	return ok
}

func (s *service) InvalidateAll() {
	s.genMu.Lock()
	s.epoch++
	clear(s.gens)
	s.genMu.Unlock()
	if s.cache != nil {
		s.cache.Purge()
	}
	s.logger.Debug("all snapshots invalidated")
}
