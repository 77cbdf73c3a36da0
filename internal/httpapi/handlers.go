package httpapi

import (
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tinoosan/finsight/internal/ledger"
)

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	q := r.Context().Value(ctxKeyReport).(reportQuery)
	sum, err := s.svc.Summary(r.Context(), userFrom(r.Context()), q.Currency, q.Period)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toSummaryResponse(sum))
}

// getRollup defaults to the expense breakdown when no type is given.
func (s *Server) getRollup(w http.ResponseWriter, r *http.Request) {
	q := r.Context().Value(ctxKeyReport).(reportQuery)
	typ := ledger.TypeExpense
	if raw := r.URL.Query().Get("type"); raw != "" {
		typ = ledger.TransactionType(strings.ToLower(raw))
	}
	b, err := s.svc.Rollup(r.Context(), userFrom(r.Context()), q.Currency, q.Period, typ)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toRollupResponse(b))
}

func (s *Server) getSeries(w http.ResponseWriter, r *http.Request) {
	q := r.Context().Value(ctxKeyReport).(reportQuery)
	points, err := s.svc.Series(r.Context(), userFrom(r.Context()), q.Currency, q.Year)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toSeriesResponse(q.Currency, q.Year, points))
}

func (s *Server) getBalances(w http.ResponseWriter, r *http.Request) {
	activeOnly, err := boolParam(r.URL.Query().Get("active_only"))
	if err != nil {
		badRequest(w, "invalid active_only")
		return
	}
	b, err := s.svc.Balances(r.Context(), userFrom(r.Context()), r.URL.Query().Get("currency"), activeOnly)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toBalancesResponse(b))
}

func (s *Server) getAccountBalance(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid account id")
		return
	}
	b, err := s.svc.AccountBalance(r.Context(), userFrom(r.Context()), accountID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toAccountBalanceResponse(b))
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.Context().Value(ctxKeyListTransactions).(listTransactionsQuery)
	page, err := s.svc.Transactions(r.Context(), userFrom(r.Context()), q.Filter, q.Page)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toTransactionPageResponse(page))
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	typ := ledger.CategoryType(strings.ToLower(r.URL.Query().Get("type")))
	nodes, err := s.svc.Categories(r.Context(), userFrom(r.Context()), typ)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, map[string]any{"items": toCategoryTreeResponse(nodes)})
}

func (s *Server) listCurrencies(w http.ResponseWriter, r *http.Request) {
	curs, err := s.svc.Currencies(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, map[string]any{"currencies": curs})
}

// invalidateSnapshot drops the caller's cached snapshot so the next report
// refetches from the source.
func (s *Server) invalidateSnapshot(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r.Context())
	ok := s.svc.Invalidate(userID)
	s.log.Info("snapshot invalidated", "user_id", userID, "cached", ok)
	toJSON(w, http.StatusOK, invalidateResponse{UserID: userID, Invalidated: ok})
}

