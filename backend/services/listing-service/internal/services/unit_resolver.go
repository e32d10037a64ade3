package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/dtos"
	"github.com/plotline/mono-repo/backend/shared/go-models"
	"github.com/plotline/mono-repo/backend/shared/go-repositories"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
)

type UnitResolver struct {
	sanitizer *Sanitizer
	buildings *BuildingResolver
	codes     *ChildCodeAllocator
}

func NewUnitResolver(
	sanitizer *Sanitizer,
	buildings *BuildingResolver,
	codes *ChildCodeAllocator,
) *UnitResolver {
	return &UnitResolver{sanitizer: sanitizer, buildings: buildings, codes: codes}
}

func (r *UnitResolver) Lookup(ctx context.Context, tx repositories.Tx, ref models.EntityRef) (UnitResult, error) {
	var (
		u   *models.Unit
		err error
	)
	switch ref.Kind() {
	case models.RefBySystemID:
		u, err = tx.Units().GetByID(ctx, ref.SystemID())
	case models.RefByCustomID:
		u, err = tx.Units().GetByCustomID(ctx, ref.CustomID())
	default:
		return UnitResult{}, missingField("unit reference")
	}
	if err != nil {
		return UnitResult{}, err
	}
	if u == nil {
		return UnitResult{}, notFound(utils.ErrUnitNotFound, "unit not found")
	}

	b, err := r.buildings.Lookup(ctx, tx, models.BySystemID(u.BuildingID))
	if err != nil {
		return UnitResult{}, err
	}
	return UnitResult{Unit: u, Existed: true, Building: b}, nil
}

// Resolve finds or creates the Unit described by p. Starting from nothing it
// may create a Location, Land, Building and Unit, all in tx.
func (r *UnitResolver) Resolve(ctx context.Context, tx repositories.Tx, p *dtos.UnitPayload) (UnitResult, error) {
	if p == nil {
		return UnitResult{}, missingField("unit")
	}

	ref, err := refFrom("unit", p.ID, p.CustomID)
	if err != nil {
		return UnitResult{}, err
	}
	if !ref.IsZero() {
		return r.Lookup(ctx, tx, ref)
	}

	name, err := r.sanitizer.RequireText("name", p.Name)
	if err != nil {
		return UnitResult{}, err
	}
	floorLevel, err := r.sanitizer.RequireInt("floor_level", p.FloorLevel)
	if err != nil {
		return UnitResult{}, err
	}
	size, err := r.sanitizer.RequireNonNegativeFloat("size", p.Size)
	if err != nil {
		return UnitResult{}, err
	}
	if p.Building == nil {
		return UnitResult{}, missingField("building")
	}

	b, err := r.buildings.Resolve(ctx, tx, p.Building)
	if err != nil {
		return UnitResult{}, err
	}
	locked, err := tx.Buildings().LockByID(ctx, b.Building.ID)
	if err != nil {
		return UnitResult{}, err
	}
	if locked == nil {
		return UnitResult{}, notFound(utils.ErrBuildingNotFound, "building not found")
	}

	find := func() (*models.Unit, error) {
		return tx.Units().FindByNaturalKey(ctx, name, b.Building.ID)
	}
	existing, err := find()
	if err != nil {
		return UnitResult{}, err
	}
	if existing != nil {
		return UnitResult{Unit: existing, Existed: true, Building: b}, nil
	}

	code, err := r.codes.Allocate(ctx, tx, b.Building.CustomID, ChildKindUnit)
	if err != nil {
		return UnitResult{}, err
	}

	u := &models.Unit{
		ID:          uuid.New(),
		CustomID:    code,
		BuildingID:  b.Building.ID,
		Name:        name,
		Bedrooms:    r.sanitizer.Int(p.Bedrooms),
		Bathrooms:   r.sanitizer.Int(p.Bathrooms),
		FloorLevel:  floorLevel,
		Size:        size,
		Description: r.sanitizer.Text(p.Description),
		Amenities:   r.sanitizer.TextList(p.Amenities),
		Features:    r.sanitizer.TextList(p.Features),
		Utilities:   r.sanitizer.Text(p.Utilities),
		UnitType:    r.sanitizer.Text(p.UnitType),
	}

	winner, err := insertOrReread(ctx, tx, repositories.ConstraintUnitNaturalKey,
		func(sp repositories.Tx) error { return sp.Units().Create(ctx, u) },
		find,
	)
	if err != nil {
		return UnitResult{}, err
	}
	if winner != nil {
		utils.Logger.WithField("unitID", winner.ID).Info("Concurrent unit insert won, reusing it")
		return UnitResult{Unit: winner, Existed: true, Building: b}, nil
	}

	utils.Logger.WithFields(logrus.Fields{
		"unitID":     u.ID,
		"customID":   u.CustomID,
		"buildingID": u.BuildingID,
	}).Info("Created unit")
	return UnitResult{Unit: u, Existed: false, Building: b}, nil
}
