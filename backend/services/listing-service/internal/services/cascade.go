package services

import (
	"context"
	"fmt"

	"github.com/plotline/mono-repo/backend/services/listing-service/internal/dtos"
	"github.com/plotline/mono-repo/backend/shared/go-models"
	"github.com/plotline/mono-repo/backend/shared/go-repositories"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
)

/*
Cascader removes entities together with their dependents, children first,
as explicit deletes inside the caller's transaction. The schema has no
ON DELETE CASCADE on the hierarchy, so a missed step fails on a foreign key
instead of silently dropping rows.
*/
type Cascader struct{}

func NewCascader() *Cascader {
	return &Cascader{}
}

// DeleteProduct removes a Product and the Lease and Media minted for it.
func (c *Cascader) DeleteProduct(ctx context.Context, tx repositories.Tx, p *models.Product, sum *dtos.DeleteSummary) error {
	if err := tx.Products().Delete(ctx, p.ID); err != nil {
		return err
	}
	sum.Products++
	if p.LeaseID != nil {
		if err := tx.Leases().Delete(ctx, *p.LeaseID); err != nil {
			return err
		}
		sum.Leases++
	}
	if p.MediaID != nil {
		if err := tx.Media().Delete(ctx, *p.MediaID); err != nil {
			return err
		}
		sum.Media++
	}
	return nil
}

// DeleteUnit removes the Unit only. Its Building is never touched.
func (c *Cascader) DeleteUnit(ctx context.Context, tx repositories.Tx, u *models.Unit, sum *dtos.DeleteSummary) error {
	if err := tx.Units().Delete(ctx, u.ID); err != nil {
		return err
	}
	sum.Units++
	return nil
}

// DeleteBuilding removes the Building with its Products and Units. The Land
// stays even when this was its last Building.
func (c *Cascader) DeleteBuilding(ctx context.Context, tx repositories.Tx, b *models.Building, sum *dtos.DeleteSummary) error {
	locked, err := tx.Buildings().LockByID(ctx, b.ID)
	if err != nil {
		return err
	}
	if locked == nil {
		return notFound(utils.ErrBuildingNotFound, "building not found")
	}

	products, err := tx.Products().ListByBuildingID(ctx, b.ID)
	if err != nil {
		return err
	}
	for _, p := range products {
		if err := c.DeleteProduct(ctx, tx, p, sum); err != nil {
			return err
		}
	}

	n, err := tx.Units().DeleteByBuildingID(ctx, b.ID)
	if err != nil {
		return err
	}
	sum.Units += int(n)

	if err := tx.Buildings().Delete(ctx, b.ID); err != nil {
		return err
	}
	sum.Buildings++
	return nil
}

// DeleteLand removes the Land with every Product, Building and Unit under
// it. Its Location goes too unless another Land still points at it.
func (c *Cascader) DeleteLand(ctx context.Context, tx repositories.Tx, land *models.Land, sum *dtos.DeleteSummary) error {
	locked, err := tx.Lands().LockByID(ctx, land.ID)
	if err != nil {
		return err
	}
	if locked == nil {
		return notFound(utils.ErrLandNotFound, "land not found")
	}

	// Building products carry the land id as well, so this covers them.
	products, err := tx.Products().ListByLandID(ctx, land.ID)
	if err != nil {
		return err
	}
	for _, p := range products {
		if err := c.DeleteProduct(ctx, tx, p, sum); err != nil {
			return err
		}
	}

	buildings, err := tx.Buildings().ListByLandID(ctx, land.ID)
	if err != nil {
		return err
	}
	for _, b := range buildings {
		if err := c.DeleteBuilding(ctx, tx, b, sum); err != nil {
			return err
		}
	}

	if err := tx.Lands().Delete(ctx, land.ID); err != nil {
		return err
	}
	sum.Lands++

	remaining, err := tx.Lands().CountByLocationID(ctx, land.LocationID)
	if err != nil {
		return err
	}
	if remaining > 0 {
		utils.Logger.WithFields(logrus.Fields{
			"locationID": land.LocationID,
			"remaining":  remaining,
		}).Debug("Location still referenced, keeping it")
		return nil
	}
	if err := tx.Locations().Delete(ctx, land.LocationID); err != nil {
		return err
	}
	sum.Locations++
	return nil
}

// DeleteLocation removes a Location that no Land references. While any Land
// still points at it the call fails with a conflict and nothing is removed;
// lands are deleted through DeleteLand, which reclaims the Location itself.
func (c *Cascader) DeleteLocation(ctx context.Context, tx repositories.Tx, loc *models.Location, sum *dtos.DeleteSummary) error {
	locked, err := tx.Locations().LockByID(ctx, loc.ID)
	if err != nil {
		return err
	}
	if locked == nil {
		return notFound(utils.ErrLocationNotFound, "location not found")
	}

	lands, err := tx.Lands().CountByLocationID(ctx, loc.ID)
	if err != nil {
		return err
	}
	if lands > 0 {
		return conflict(utils.ErrLocationInUse, fmt.Sprintf("location is still referenced by %d land(s)", lands))
	}

	if err := tx.Locations().Delete(ctx, loc.ID); err != nil {
		return err
	}
	sum.Locations++
	return nil
}
