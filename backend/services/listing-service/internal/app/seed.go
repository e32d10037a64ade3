package app

import (
	"context"
	"fmt"

	seeding "github.com/plotline/mono-repo/backend/shared/go-seeding"
)

// SeedAllTestData loads the demo estate. It is idempotent.
func (a *App) SeedAllTestData(ctx context.Context) error {
	if err := seeding.SeedDemoEstate(ctx, a.TxR); err != nil {
		return fmt.Errorf("seed demo estate: %w", err)
	}
	return nil
}
