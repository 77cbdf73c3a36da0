// Package memory provides an in-memory snapshot source used for development
// and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/tinoosan/finsight/internal/ledger"
)

// Store holds seeded records per user. It is guarded by an RWMutex so seeding
// and reads may happen concurrently.
type Store struct {
	mu           sync.RWMutex
	accounts     map[uuid.UUID][]ledger.Account
	transactions map[uuid.UUID][]ledger.Transaction
	categories   map[uuid.UUID][]ledger.Category
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{
		accounts:     make(map[uuid.UUID][]ledger.Account),
		transactions: make(map[uuid.UUID][]ledger.Transaction),
		categories:   make(map[uuid.UUID][]ledger.Category),
	}
}

// Seed helpers for local dev/tests. Records are stored under their UserID.
func (s *Store) SeedAccount(a ledger.Account) {
	s.mu.Lock()
	s.accounts[a.UserID] = append(s.accounts[a.UserID], a)
	s.mu.Unlock()
}

func (s *Store) SeedTransaction(t ledger.Transaction) {
	s.mu.Lock()
	s.transactions[t.UserID] = append(s.transactions[t.UserID], t)
	s.mu.Unlock()
}

func (s *Store) SeedCategory(c ledger.Category) {
	s.mu.Lock()
	s.categories[c.UserID] = append(s.categories[c.UserID], c)
	s.mu.Unlock()
}

// SeedSnapshot stores every record of snap under snap.UserID.
func (s *Store) SeedSnapshot(snap ledger.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range snap.Accounts {
		a.UserID = snap.UserID
		s.accounts[snap.UserID] = append(s.accounts[snap.UserID], a)
	}
	for _, t := range snap.Transactions {
		t.UserID = snap.UserID
		s.transactions[snap.UserID] = append(s.transactions[snap.UserID], t)
	}
	for _, c := range snap.Categories {
		c.UserID = snap.UserID
		s.categories[snap.UserID] = append(s.categories[snap.UserID], c)
	}
}

// Reset drops every record.
func (s *Store) Reset() {
	s.mu.Lock()
	s.accounts = map[uuid.UUID][]ledger.Account{}
	s.transactions = map[uuid.UUID][]ledger.Transaction{}
	s.categories = map[uuid.UUID][]ledger.Category{}
	s.mu.Unlock()
}

// Users lists every user with at least one seeded record.
func (s *Store) Users() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[uuid.UUID]struct{})
	for id := range s.accounts {
		seen[id] = struct{}{}
	}
	for id := range s.transactions {
		seen[id] = struct{}{}
	}
	for id := range s.categories {
		seen[id] = struct{}{}
	}
	out := make([]uuid.UUID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Accounts implements insight.Source.
func (s *Store) Accounts(_ context.Context, userID uuid.UUID) ([]ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ledger.Account{}, s.accounts[userID]...), nil
}

// Transactions implements insight.Source.
func (s *Store) Transactions(_ context.Context, userID uuid.UUID) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ledger.Transaction{}, s.transactions[userID]...), nil
}

// Categories implements insight.Source.
func (s *Store) Categories(_ context.Context, userID uuid.UUID) ([]ledger.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Category, 0, len(s.categories[userID]))
	for _, c := range s.categories[userID] {
		if c.ParentID != nil {
			p := *c.ParentID
			c.ParentID = &p
		}
		out = append(out, c)
	}
	return out, nil
}

// Ready always succeeds; it exists so the store satisfies the readiness probe.
func (s *Store) Ready(context.Context) error { return nil }
