package store

import (
	"context"
	"fmt"

	"github.com/weiwei-tsao/country-stats/apps/api/internal/business/countries"
	"github.com/weiwei-tsao/country-stats/apps/api/internal/platform/config"
	firestoreclient "github.com/weiwei-tsao/country-stats/apps/api/internal/platform/firestore"
	"github.com/weiwei-tsao/country-stats/apps/api/internal/repository"
)

// Open builds the report store selected by cfg.ReportStore. It returns a nil
// store for StoreNone. The returned close func is always safe to call.
func Open(ctx context.Context, cfg config.Config) (countries.ReportStore, func() error, string, error) {
	noop := func() error { return nil }
	switch cfg.ReportStore {
	case config.StoreNone:
		return nil, noop, "disabled", nil
	case config.StoreSQLite:
		s, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, noop, "", err
		}
		return s, s.Close, "sqlite " + cfg.SQLitePath, nil
	case config.StoreFirestore:
		client, credsSource, err := firestoreclient.New(ctx, cfg)
		if err != nil {
			return nil, noop, "", fmt.Errorf("firestore init: %w", err)
		}
		if err := firestoreclient.Ping(ctx, client, repository.ReportsCollection); err != nil {
			client.Close()
			return nil, noop, "", fmt.Errorf("firestore ping: %w", err)
		}
		desc := fmt.Sprintf("firestore project %s using %s", cfg.FirebaseProjectID, credsSource)
		return repository.NewReportRepository(client), client.Close, desc, nil
	default:
		return nil, noop, "", fmt.Errorf("unknown report store %q", cfg.ReportStore)
	}
}
