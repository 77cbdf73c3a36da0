package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tinoosan/finsight/internal/ledger"
	"github.com/tinoosan/finsight/internal/report"
)

type ctxKey string

const (
	ctxKeyUser             ctxKey = "validatedUser"
	ctxKeyReport           ctxKey = "validatedReport"
	ctxKeyListTransactions ctxKey = "validatedListTransactions"
)

// reportQuery holds the validated currency and period of a report request.
// Period is only set for monthly reports; series requests use Year alone.
type reportQuery struct {
	Currency string
	Period   report.Period
	Year     int
}

// listTransactionsQuery holds the validated filter and page of GET /transactions.
type listTransactionsQuery struct {
	Filter report.TransactionFilter
	Page   report.PageRequest
}

func userFrom(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(ctxKeyUser).(uuid.UUID)
	return id
}

// validateUser requires a user_id query parameter on every /v1 route.
func (s *Server) validateUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("user_id")
		if raw == "" {
			badRequest(w, "user_id is required")
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			badRequest(w, "invalid user_id")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyUser, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// validateReport parses currency, month and year. Missing month or year
// default to the current ones. When monthly is false the month is ignored.
func (s *Server) validateReport(monthly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			cur, err := ledger.NormalizeCurrency(q.Get("currency"))
			if err != nil {
				badRequest(w, err.Error())
				return
			}
			now := s.now()
			year, ok := intParam(w, q.Get("year"), "year", now.Year())
			if !ok {
				return
			}
			rq := reportQuery{Currency: cur, Year: year}
			if monthly {
				month, ok := intParam(w, q.Get("month"), "month", int(now.Month()))
				if !ok {
					return
				}
				if rq.Period, err = report.NewPeriod(month, year); err != nil {
					badRequest(w, err.Error())
					return
				}
			}
			ctx := context.WithValue(r.Context(), ctxKeyReport, rq)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validateListTransactions parses the listing filters and pagination.
// month and year must be given together; without them no period applies.
func (s *Server) validateListTransactions() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			var lq listTransactionsQuery
			f := &lq.Filter

			rawMonth, rawYear := q.Get("month"), q.Get("year")
			if (rawMonth == "") != (rawYear == "") {
				badRequest(w, "month and year must be given together")
				return
			}
			if rawMonth != "" {
				month, ok := intParam(w, rawMonth, "month", 0)
				if !ok {
					return
				}
				year, ok := intParam(w, rawYear, "year", 0)
				if !ok {
					return
				}
				p, err := report.NewPeriod(month, year)
				if err != nil {
					badRequest(w, err.Error())
					return
				}
				f.Period = &p
			}

			var err error
			if f.DateField, err = report.ParseDateField(q.Get("date_field")); err != nil {
				badRequest(w, err.Error())
				return
			}
			if f.Status, err = report.ParsePaidStatus(q.Get("status")); err != nil {
				badRequest(w, err.Error())
				return
			}
			if t := q.Get("type"); t != "" {
				f.Type = ledger.TransactionType(strings.ToLower(t))
				if err := f.Type.Validate(); err != nil {
					badRequest(w, err.Error())
					return
				}
			}
			if f.AccountIDs, err = uuidList(q["account_id"]); err != nil {
				badRequest(w, "invalid account_id")
				return
			}
			if f.CategoryIDs, err = uuidList(q["category_id"]); err != nil {
				badRequest(w, "invalid category_id")
				return
			}
			if f.IncludeTransfers, err = boolParam(q.Get("include_transfers")); err != nil {
				badRequest(w, "invalid include_transfers")
				return
			}
			f.Query = q.Get("q")

			page, ok := intParam(w, q.Get("page"), "page", 1)
			if !ok {
				return
			}
			size, ok := intParam(w, q.Get("page_size"), "page_size", report.DefaultPageSize)
			if !ok {
				return
			}
			lq.Page = report.PageRequest{Page: page, Size: size}

			ctx := context.WithValue(r.Context(), ctxKeyListTransactions, lq)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// intParam parses an optional integer query parameter, writing a 400 and
// returning ok=false when it is malformed.
func intParam(w http.ResponseWriter, raw, name string, def int) (int, bool) {
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		badRequest(w, "invalid "+name)
		return 0, false
	}
	return n, true
}

// uuidList accepts repeated and comma-separated ids.
func uuidList(values []string) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				return nil, err
			}
			out = append(out, id)
		}
	}
	return out, nil
}

func boolParam(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
