package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/tinoosan/finsight/internal/config"
	"github.com/tinoosan/finsight/internal/errs"
	"github.com/tinoosan/finsight/internal/ledger"
	"github.com/tinoosan/finsight/internal/report"
	"github.com/tinoosan/finsight/internal/service/insight"
)

// reportFlags are shared by every report command.
type reportFlags struct {
	user     string
	currency string
	month    int
	year     int
	lang     string
}

func (f *reportFlags) register(cmd *cobra.Command, withMonth bool) {
	now := time.Now()
	cmd.Flags().StringVar(&f.user, "user", "", "user id (defaults to the dev-seeded user with the memory source)")
	cmd.Flags().StringVar(&f.currency, "currency", "", "ISO-4217 currency code")
	cmd.Flags().IntVar(&f.year, "year", now.Year(), "report year")
	if withMonth {
		cmd.Flags().IntVar(&f.month, "month", int(now.Month()), "report month (1-12)")
	}
	cmd.Flags().StringVar(&f.lang, "lang", "en", "language tag used to format amounts")
}

// reportEnv is what a report command needs once flags are resolved.
type reportEnv struct {
	svc  insight.Service
	user uuid.UUID
	tag  language.Tag
	out  io.Writer
}

// withReport loads config, opens the source and resolves the user before
// calling fn. Logs go to stderr so stdout only carries the report.
func withReport(cmd *cobra.Command, f *reportFlags, fn func(ctx context.Context, env reportEnv) error) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	tag, err := language.Parse(f.lang)
	if err != nil {
		return fmt.Errorf("%w: lang %q: %v", errs.ErrInvalid, f.lang, err)
	}

	ctx := cmd.Context()
	b, err := openBackend(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer b.close()

	user := b.demoUser
	if f.user != "" {
		if user, err = uuid.Parse(f.user); err != nil {
			return fmt.Errorf("%w: user %q", errs.ErrInvalid, f.user)
		}
	}
	if user == uuid.Nil {
		return fmt.Errorf("%w: --user is required", errs.ErrInvalid)
	}

	return fn(ctx, reportEnv{
		svc:  insight.New(b.src, nil, logger),
		user: user,
		tag:  tag,
		out:  cmd.OutOrStdout(),
	})
}

func summaryCmd() *cobra.Command {
	var f reportFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print income, expense, net and balance for one month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withReport(cmd, &f, func(ctx context.Context, env reportEnv) error {
				p, err := report.NewPeriod(f.month, f.year)
				if err != nil {
					return err
				}
				s, err := env.svc.Summary(ctx, env.user, f.currency, p)
				if err != nil {
					return err
				}
				writeSummary(env.out, s, env.tag)
				return nil
			})
		},
	}
	f.register(cmd, true)
	return cmd
}

func rollupCmd() *cobra.Command {
	var f reportFlags
	var typ string
	cmd := &cobra.Command{
		Use:   "rollup",
		Short: "Print one month's totals grouped by top-level category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withReport(cmd, &f, func(ctx context.Context, env reportEnv) error {
				p, err := report.NewPeriod(f.month, f.year)
				if err != nil {
					return err
				}
				b, err := env.svc.Rollup(ctx, env.user, f.currency, p, ledger.TransactionType(strings.ToLower(typ)))
				if err != nil {
					return err
				}
				writeRollup(env.out, b, env.tag)
				return nil
			})
		},
	}
	f.register(cmd, true)
	cmd.Flags().StringVar(&typ, "type", string(ledger.TypeExpense), "transaction type (income, expense)")
	return cmd
}

func balancesCmd() *cobra.Command {
	var f reportFlags
	var activeOnly bool
	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Print confirmed and projected balances per account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withReport(cmd, &f, func(ctx context.Context, env reportEnv) error {
				b, err := env.svc.Balances(ctx, env.user, f.currency, activeOnly)
				if err != nil {
					return err
				}
				writeBalances(env.out, b, env.tag)
				return nil
			})
		},
	}
	f.register(cmd, false)
	cmd.Flags().BoolVar(&activeOnly, "active-only", false, "hide deactivated accounts")
	return cmd
}

func seriesCmd() *cobra.Command {
	var f reportFlags
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Print monthly income, expense and net for one year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withReport(cmd, &f, func(ctx context.Context, env reportEnv) error {
				points, err := env.svc.Series(ctx, env.user, f.currency, f.year)
				if err != nil {
					return err
				}
				cur, _ := ledger.NormalizeCurrency(f.currency)
				writeSeries(env.out, cur, points, env.tag)
				return nil
			})
		},
	}
	f.register(cmd, false)
	return cmd
}
