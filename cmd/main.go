package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tinoosan/finsight/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "finsight",
	Short: "Personal finance reports derived from raw accounts and transactions",
	Long: `finsight reads a user's accounts, transactions and categories from the
finance backend and derives balances, period summaries, category rollups and
yearly series from them. "finsight serve" exposes the reports over HTTP; the
other commands print them for one user.`,
	SilenceUsage: true,
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(rollupCmd())
	rootCmd.AddCommand(balancesCmd())
	rootCmd.AddCommand(seriesCmd())
}

func main() {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
