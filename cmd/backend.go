package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tinoosan/finsight/internal/config"
	"github.com/tinoosan/finsight/internal/httpapi"
	"github.com/tinoosan/finsight/internal/service/insight"
	"github.com/tinoosan/finsight/internal/storage/memory"
	pgstore "github.com/tinoosan/finsight/internal/storage/postgres"
	"github.com/tinoosan/finsight/internal/upstream"
)

// backend is an opened snapshot source plus what the caller needs to serve
// and close it.
type backend struct {
	src   insight.Source
	ready []httpapi.ReadyChecker
	// demoUser is the seeded user when the memory source was dev-seeded.
	demoUser uuid.UUID
	close    func()
}

// openBackend connects the source named by cfg.Source. When banner is not
// nil and demo data is seeded, the demo ids are printed to it.
func openBackend(ctx context.Context, cfg config.Config, logger *slog.Logger, banner io.Writer) (backend, error) {
	switch cfg.Source {
	case config.SourceUpstream:
		client, err := upstream.NewClient(cfg.UpstreamURL, cfg.UpstreamToken, cfg.UpstreamTimeout, upstream.WithLogger(logger))
		if err != nil {
			return backend{}, err
		}
		logger.Info("snapshot source: upstream", "url", cfg.UpstreamURL)
		return backend{src: client, ready: []httpapi.ReadyChecker{httpapi.ReadyFunc(client.Ping)}, close: func() {}}, nil

	case config.SourcePostgres:
		pg, err := pgstore.Open(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return backend{}, fmt.Errorf("connect to postgres: %w", err)
		}
		logger.Info("snapshot source: postgres")
		return backend{src: pg, ready: []httpapi.ReadyChecker{pg}, close: pg.Close}, nil

	default:
		store := memory.New()
		b := backend{src: store, ready: []httpapi.ReadyChecker{store}, close: func() {}}
		if cfg.DevSeed {
			b.demoUser = store.SeedDev(time.Now())
			logger.Info("DEV seed (memory)", "user_id", b.demoUser.String())
			if banner != nil {
				printDevSeedBanner(ctx, banner, store, b.demoUser)
			}
		}
		logger.Info("snapshot source: memory")
		return b, nil
	}
}

// printDevSeedBanner prints a simple banner for easy copy/paste of IDs.
func printDevSeedBanner(ctx context.Context, w io.Writer, store *memory.Store, user uuid.UUID) {
	accounts, _ := store.Accounts(ctx, user)
	fmt.Fprintln(w, "==================== DEV SEED ====================")
	fmt.Fprintf(w, "user_id: %s\n", user)
	for _, a := range accounts {
		fmt.Fprintf(w, "account %-12s %s %s\n", a.Name, a.Currency, a.ID)
	}
	fmt.Fprintln(w, "==================================================")
}
