package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/andreyxaxa/photo-thumbnailer/migrations"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/logger"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/postgres"
)

func migrate(ctx context.Context, pg *postgres.Postgres, l logger.Interface) error {
	db := pg.DB()
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("app - migrate - goose.NewProvider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		if errors.Is(err, goose.ErrNoNextVersion) {
			l.Info("app - migrate - no change")

			return nil
		}

		return fmt.Errorf("app - migrate - provider.Up: %w", err)
	}

	for _, r := range results {
		l.Info("app - migrate - applied %s in %s", r.Source.Path, r.Duration)
	}

	return nil
}
