package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/config"
	"github.com/plotline/mono-repo/backend/shared/go-repositories"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
	migrateTimeout = 30 * time.Second
)

type App struct {
	Config *config.Config
	DB     *pgxpool.Pool
	TxR    repositories.TxRunner
	Schema string
}

func NewApp(cfg *config.Config) (*App, error) {
	effectiveURL := cfg.DBUrl
	schema := ""
	if cfg.LDFlag_UsingIsolatedSchema {
		var err error
		effectiveURL, schema, err = utils.WithIsolatedSchema(cfg.DBUrl, cfg.UniqueRunnerID, cfg.UniqueRunNumber)
		if err != nil {
			return nil, err
		}
		utils.Logger.Infof("Using isolated schema for %s; schema=%s", cfg.AppName, schema)
	} else {
		utils.Logger.Infof("Isolated schema disabled; using public schema for %s.", cfg.AppName)
	}

	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		dbPool, err = newDBPool(ctx, effectiveURL)
		cancel()
		if err == nil {
			utils.Logger.Infof("%s connected to DB on attempt %d", cfg.AppName, i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
		}
		time.Sleep(backoff)
		backoff *= 2
	}

	app := &App{
		Config: cfg,
		DB:     dbPool,
		TxR:    repositories.NewTxRunner(dbPool),
		Schema: schema,
	}
	return app, nil
}

// Migrate creates the run schema when one is in use, then applies the
// table definitions. Safe to call repeatedly.
func (a *App) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()

	if a.Schema != "" {
		if _, err := a.DB.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{a.Schema}.Sanitize()); err != nil {
			return fmt.Errorf("create schema %s: %w", a.Schema, err)
		}
	}
	if err := repositories.Migrate(ctx, a.DB); err != nil {
		return err
	}
	utils.Logger.Info("Schema is up to date")
	return nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Infof("%s DB connection closed.", a.Config.AppName)
	}
}

func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	return pgxpool.ConnectConfig(ctx, cfg)
}
