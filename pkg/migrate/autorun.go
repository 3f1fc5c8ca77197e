package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/marketplace-cart/pkg/config"
	"github.com/angelmondragon/marketplace-cart/pkg/db"
	"github.com/angelmondragon/marketplace-cart/pkg/logger"
)

// MaybeRun applies the embedded migrations when the SQL backend is selected and
// the auto-migrate flag is enabled.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg.Storage.Kind() != config.BackendSQL || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": client.Driver()})
		logg.Info(ctx, "running goose migrations")
	}

	if err := Up(ctx, sqlDB, client.Driver()); err != nil {
		return err
	}

	if logg != nil {
		logg.Info(ctx, "goose migrations completed")
	}
	return nil
}
