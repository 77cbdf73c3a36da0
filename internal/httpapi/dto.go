package httpapi

import (
	"github.com/google/uuid"
	"github.com/govalues/decimal"

	"github.com/tinoosan/finsight/internal/ledger"
	"github.com/tinoosan/finsight/internal/report"
	"github.com/tinoosan/finsight/internal/service/insight"
)

// Money fields come in pairs: a major-unit decimal string and the same value
// in integer minor units under the *_minor name.

type totalsResponse struct {
	Income       string `json:"income"`
	IncomeMinor  int64  `json:"income_minor"`
	Expense      string `json:"expense"`
	ExpenseMinor int64  `json:"expense_minor"`
	Net          string `json:"net"`
	NetMinor     int64  `json:"net_minor"`
}

type deltasResponse struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
	Balance float64 `json:"balance"`
}

type summaryResponse struct {
	Currency             string         `json:"currency"`
	Period               report.Period  `json:"period"`
	Current              totalsResponse `json:"current"`
	Previous             totalsResponse `json:"previous"`
	HasHistoricalData    bool           `json:"has_historical_data"`
	Deltas               deltasResponse `json:"deltas"`
	Balance              string         `json:"balance"`
	BalanceMinor         int64          `json:"balance_minor"`
	PreviousBalance      string         `json:"previous_balance"`
	PreviousBalanceMinor int64          `json:"previous_balance_minor"`
}

type sliceResponse struct {
	CategoryID uuid.UUID `json:"category_id"`
	Label      string    `json:"label"`
	Color      string    `json:"color,omitempty"`
	Value      string    `json:"value"`
	ValueMinor int64     `json:"value_minor"`
	Percent    float64   `json:"percent"`
}

type rollupResponse struct {
	Currency   string                 `json:"currency"`
	Period     report.Period          `json:"period"`
	Type       ledger.TransactionType `json:"type"`
	Total      string                 `json:"total"`
	TotalMinor int64                  `json:"total_minor"`
	Slices     []sliceResponse        `json:"slices"`
}

type accountBalanceResponse struct {
	AccountID      uuid.UUID `json:"account_id"`
	Name           string    `json:"name"`
	Currency       string    `json:"currency"`
	Color          string    `json:"color,omitempty"`
	Active         bool      `json:"active"`
	Confirmed      string    `json:"confirmed"`
	ConfirmedMinor int64     `json:"confirmed_minor"`
	Projected      string    `json:"projected"`
	ProjectedMinor int64     `json:"projected_minor"`
}

// balancesResponse carries totals only when a currency was requested.
type balancesResponse struct {
	Currency            string                   `json:"currency,omitempty"`
	Accounts            []accountBalanceResponse `json:"accounts"`
	TotalConfirmed      *string                  `json:"total_confirmed,omitempty"`
	TotalConfirmedMinor *int64                   `json:"total_confirmed_minor,omitempty"`
	TotalProjected      *string                  `json:"total_projected,omitempty"`
	TotalProjectedMinor *int64                   `json:"total_projected_minor,omitempty"`
}

type transactionResponse struct {
	ID                 uuid.UUID              `json:"id"`
	AccountID          uuid.UUID              `json:"account_id"`
	AccountName        string                 `json:"account_name,omitempty"`
	Currency           string                 `json:"currency,omitempty"`
	CategoryID         uuid.UUID              `json:"category_id"`
	CategoryName       string                 `json:"category_name,omitempty"`
	GroupID            *uuid.UUID             `json:"group_id,omitempty"`
	GroupName          string                 `json:"group_name,omitempty"`
	Type               ledger.TransactionType `json:"type"`
	Description        string                 `json:"description"`
	Amount             string                 `json:"amount"`
	AmountMinor        int64                  `json:"amount_minor"`
	DueDate            string                 `json:"due_date"`
	CompetenceDate     string                 `json:"competence_date"`
	Paid               bool                   `json:"paid"`
	Observation        string                 `json:"observation,omitempty"`
	TransferID         string                 `json:"transfer_id,omitempty"`
	Recurring          bool                   `json:"recurring"`
	Installments       int                    `json:"installments,omitempty"`
	CurrentInstallment int                    `json:"current_installment,omitempty"`
}

type transactionPageResponse struct {
	Items      []transactionResponse `json:"items"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	Total      int                   `json:"total"`
	TotalPages int                   `json:"total_pages"`
}

type seriesPointResponse struct {
	Period report.Period `json:"period"`
	totalsResponse
}

type seriesResponse struct {
	Currency string                `json:"currency"`
	Year     int                   `json:"year"`
	Points   []seriesPointResponse `json:"points"`
}

type categoryResponse struct {
	ID          uuid.UUID           `json:"id"`
	ParentID    *uuid.UUID          `json:"parent_id,omitempty"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Type        ledger.CategoryType `json:"type"`
	Color       string              `json:"color,omitempty"`
	Icon        string              `json:"icon,omitempty"`
	Active      bool                `json:"active"`
	Children    []categoryResponse  `json:"children,omitempty"`
}

type invalidateResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Invalidated bool      `json:"invalidated"`
}

func minorString(minor int64) string { return report.ToMajorUnits(minor).String() }

func toTotalsResponse(t report.Totals) totalsResponse {
	return totalsResponse{
		Income:       t.IncomeMajor().String(),
		IncomeMinor:  t.Income,
		Expense:      t.ExpenseMajor().String(),
		ExpenseMinor: t.Expense,
		Net:          t.NetMajor().String(),
		NetMinor:     t.Net,
	}
}

func toSummaryResponse(s report.PeriodSummary) summaryResponse {
	return summaryResponse{
		Currency:          s.Currency,
		Period:            s.Period,
		Current:           toTotalsResponse(s.Current),
		Previous:          toTotalsResponse(s.Previous),
		HasHistoricalData: s.HasHistoricalData,
		Deltas: deltasResponse{
			Income:  s.Deltas.Income,
			Expense: s.Deltas.Expense,
			Net:     s.Deltas.Net,
			Balance: s.Deltas.Balance,
		},
		Balance:              minorString(s.Balance),
		BalanceMinor:         s.Balance,
		PreviousBalance:      minorString(s.PreviousBalance),
		PreviousBalanceMinor: s.PreviousBalance,
	}
}

func toRollupResponse(b report.CategoryBreakdown) rollupResponse {
	out := rollupResponse{
		Currency:   b.Currency,
		Period:     b.Period,
		Type:       b.Type,
		Total:      minorString(b.Total),
		TotalMinor: b.Total,
		Slices:     make([]sliceResponse, 0, len(b.Slices)),
	}
	for _, sl := range b.Slices {
		out.Slices = append(out.Slices, sliceResponse{
			CategoryID: sl.CategoryID,
			Label:      sl.Label,
			Color:      sl.Color,
			Value:      minorString(sl.Value),
			ValueMinor: sl.Value,
			Percent:    sl.Percent,
		})
	}
	return out
}

func toAccountBalanceResponse(b report.AccountBalance) accountBalanceResponse {
	return accountBalanceResponse{
		AccountID:      b.Account.ID,
		Name:           b.Account.Name,
		Currency:       b.Account.Currency,
		Color:          b.Account.Color,
		Active:         b.Account.Active,
		Confirmed:      b.Confirmed.String(),
		ConfirmedMinor: report.ToMinorUnits(b.Confirmed),
		Projected:      b.Projected.String(),
		ProjectedMinor: report.ToMinorUnits(b.Projected),
	}
}

func toBalancesResponse(b insight.Balances) balancesResponse {
	out := balancesResponse{Currency: b.Currency, Accounts: make([]accountBalanceResponse, 0, len(b.Accounts))}
	for _, a := range b.Accounts {
		out.Accounts = append(out.Accounts, toAccountBalanceResponse(a))
	}
	if b.Currency != "" {
		confirmed, projected := minorString(b.TotalConfirmed), minorString(b.TotalProjected)
		out.TotalConfirmed, out.TotalConfirmedMinor = &confirmed, &b.TotalConfirmed
		out.TotalProjected, out.TotalProjectedMinor = &projected, &b.TotalProjected
	}
	return out
}

func toTransactionResponse(row report.TransactionRow) transactionResponse {
	tx := row.Transaction
	out := transactionResponse{
		ID:                 tx.ID,
		AccountID:          tx.AccountID,
		AccountName:        row.AccountName,
		Currency:           row.Currency,
		CategoryID:         tx.CategoryID,
		CategoryName:       row.Category.Name,
		Type:               tx.Type,
		Description:        tx.Description,
		Amount:             decimalString(row.Amount),
		AmountMinor:        tx.Amount,
		DueDate:            tx.DueDate,
		CompetenceDate:     tx.CompetenceDate,
		Paid:               tx.Paid,
		Observation:        tx.Observation,
		TransferID:         tx.TransferID,
		Recurring:          tx.Recurring,
		Installments:       tx.Installments,
		CurrentInstallment: tx.CurrentInstallment,
	}
	if row.Group.ID != uuid.Nil {
		id := row.Group.ID
		out.GroupID, out.GroupName = &id, row.Group.Name
	}
	return out
}

func toTransactionPageResponse(p report.TransactionPage) transactionPageResponse {
	out := transactionPageResponse{
		Items:      make([]transactionResponse, 0, len(p.Rows)),
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
	for _, row := range p.Rows {
		out.Items = append(out.Items, toTransactionResponse(row))
	}
	return out
}

func toSeriesResponse(currency string, year int, points []report.SeriesPoint) seriesResponse {
	out := seriesResponse{Currency: currency, Year: year, Points: make([]seriesPointResponse, 0, len(points))}
	for _, p := range points {
		out.Points = append(out.Points, seriesPointResponse{Period: p.Period, totalsResponse: toTotalsResponse(p.Totals)})
	}
	return out
}

func toCategoryResponse(c ledger.Category) categoryResponse {
	out := categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Type:        c.Type,
		Color:       c.Color,
		Icon:        c.Icon,
		Active:      c.Active,
	}
	if !c.IsTopLevel() {
		parent := *c.ParentID
		out.ParentID = &parent
	}
	return out
}

func toCategoryTreeResponse(nodes []report.CategoryNode) []categoryResponse {
	out := make([]categoryResponse, 0, len(nodes))
	for _, n := range nodes {
		c := toCategoryResponse(n.Category)
		for _, child := range n.Children {
			c.Children = append(c.Children, toCategoryResponse(child))
		}
		out = append(out, c)
	}
	return out
}

// decimalString renders an amount with canonical zero.
func decimalString(d decimal.Decimal) string { return report.NormalizeZero(d).String() }
