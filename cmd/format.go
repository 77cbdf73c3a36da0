package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"

	"github.com/tinoosan/finsight/internal/report"
	"github.com/tinoosan/finsight/internal/service/insight"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

func delta(pct float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", pct)
}

func writeSummary(w io.Writer, s report.PeriodSummary, tag language.Tag) {
	fmt.Fprintf(w, "Summary %s %s\n", s.Currency, s.Period)
	tw := newTable(w)
	fmt.Fprintln(tw, "\tcurrent\tprevious\tchange\t")
	row := func(label string, cur, prev int64, pct float64) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", label,
			report.FormatMinor(cur, s.Currency, tag),
			report.FormatMinor(prev, s.Currency, tag),
			delta(pct, s.HasHistoricalData))
	}
	row("income", s.Current.Income, s.Previous.Income, s.Deltas.Income)
	row("expense", s.Current.Expense, s.Previous.Expense, s.Deltas.Expense)
	row("net", s.Current.Net, s.Previous.Net, s.Deltas.Net)
	row("balance", s.Balance, s.PreviousBalance, s.Deltas.Balance)
	tw.Flush()
}

func writeRollup(w io.Writer, b report.CategoryBreakdown, tag language.Tag) {
	fmt.Fprintf(w, "%s by category %s %s\n", b.Type, b.Currency, b.Period)
	tw := newTable(w)
	for _, sl := range b.Slices {
		fmt.Fprintf(tw, "%s\t%s\t%.1f%%\t\n", sl.Label, report.FormatMinor(sl.Value, b.Currency, tag), sl.Percent)
	}
	fmt.Fprintf(tw, "total\t%s\t\t\n", report.FormatMinor(b.Total, b.Currency, tag))
	tw.Flush()
}

func writeBalances(w io.Writer, b insight.Balances, tag language.Tag) {
	tw := newTable(w)
	fmt.Fprintln(tw, "account\tconfirmed\tprojected\t")
	for _, a := range b.Accounts {
		name := a.Account.Name
		if !a.Account.Active {
			name += " (inactive)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", name,
			report.FormatMinor(report.ToMinorUnits(a.Confirmed), a.Account.Currency, tag),
			report.FormatMinor(report.ToMinorUnits(a.Projected), a.Account.Currency, tag))
	}
	if b.Currency != "" {
		fmt.Fprintf(tw, "total\t%s\t%s\t\n",
			report.FormatMinor(b.TotalConfirmed, b.Currency, tag),
			report.FormatMinor(b.TotalProjected, b.Currency, tag))
	}
	tw.Flush()
}

func writeSeries(w io.Writer, currency string, points []report.SeriesPoint, tag language.Tag) {
	tw := newTable(w)
	fmt.Fprintln(tw, "month\tincome\texpense\tnet\t")
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", p.Period,
			report.FormatMinor(p.Totals.Income, currency, tag),
			report.FormatMinor(p.Totals.Expense, currency, tag),
			report.FormatMinor(p.Totals.Net, currency, tag))
	}
	tw.Flush()
}
