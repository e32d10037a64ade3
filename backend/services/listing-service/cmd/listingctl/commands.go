package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/plotline/mono-repo/backend/services/listing-service/internal/app"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/config"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/dtos"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/services"
	"github.com/spf13/cobra"
)

var (
	commandTimeout time.Duration
	childKind      string
)

func init() {
	rootCmd.PersistentFlags().DurationVar(&commandTimeout, "timeout", time.Minute, "Abort the command after this long")
	nextCodeCmd.Flags().StringVarP(&childKind, "kind", "k", string(services.ChildKindBuilding), "Child kind: building or unit")

	rootCmd.AddCommand(migrateCmd, seedCmd, nextCodeCmd, resolveCmd)
}

// withApp connects using the environment, runs fn and closes the pool.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	a, err := app.NewApp(config.LoadStorageConfig())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every listing table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return a.Migrate(ctx)
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo estate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Migrate(ctx); err != nil {
				return err
			}
			return a.SeedAllTestData(ctx)
		})
	},
}

var nextCodeCmd = &cobra.Command{
	Use:   "next-code PARENT_CODE",
	Short: "Preview the next building or unit code under a parent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := services.ChildKind(childKind)
		if kind != services.ChildKindBuilding && kind != services.ChildKindUnit {
			return fmt.Errorf("unknown kind %q", childKind)
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			code, err := services.NewListingService(a.TxR).AllocateChildCode(ctx, args[0], kind)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		})
	},
}

var resolveCmd = &cobra.Command{
	Use:       "resolve KIND [FILE]",
	Short:     "Find or create an entity from a JSON payload (stdin when FILE is omitted)",
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{"location", "land", "building", "unit", "product"},
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 2 && args[1] != "-" {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			out, err := resolve(ctx, services.NewListingService(a.TxR), args[0], in)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		})
	},
}

func resolve(ctx context.Context, svc *services.ListingService, kind string, in io.Reader) (any, error) {
	dec := json.NewDecoder(in)
	switch kind {
	case "location":
		var p dtos.LocationPayload
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode location payload: %w", err)
		}
		return svc.ResolveLocation(ctx, p)
	case "land":
		var p dtos.LandPayload
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode land payload: %w", err)
		}
		return svc.ResolveLand(ctx, p)
	case "building":
		var p dtos.BuildingPayload
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode building payload: %w", err)
		}
		return svc.ResolveBuilding(ctx, p)
	case "unit":
		var p dtos.UnitPayload
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode unit payload: %w", err)
		}
		return svc.ResolveUnit(ctx, p)
	case "product":
		var p dtos.ProductPayload
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode product payload: %w", err)
		}
		return svc.AssembleProduct(ctx, p)
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}
