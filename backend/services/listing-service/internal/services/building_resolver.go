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

type BuildingResolver struct {
	sanitizer *Sanitizer
	lands     *LandResolver
	codes     *ChildCodeAllocator
}

func NewBuildingResolver(
	sanitizer *Sanitizer,
	lands *LandResolver,
	codes *ChildCodeAllocator,
) *BuildingResolver {
	return &BuildingResolver{sanitizer: sanitizer, lands: lands, codes: codes}
}

// Lookup loads an existing Building with its Land and Location.
func (r *BuildingResolver) Lookup(ctx context.Context, tx repositories.Tx, ref models.EntityRef) (BuildingResult, error) {
	var (
		b   *models.Building
		err error
	)
	switch ref.Kind() {
	case models.RefBySystemID:
		b, err = tx.Buildings().GetByID(ctx, ref.SystemID())
	case models.RefByCustomID:
		b, err = tx.Buildings().GetByCustomID(ctx, ref.CustomID())
	default:
		return BuildingResult{}, missingField("building reference")
	}
	if err != nil {
		return BuildingResult{}, err
	}
	if b == nil {
		return BuildingResult{}, notFound(utils.ErrBuildingNotFound, "building not found")
	}

	land, err := r.lands.Lookup(ctx, tx, models.BySystemID(b.LandID))
	if err != nil {
		return BuildingResult{}, err
	}
	return BuildingResult{Building: b, Existed: true, Land: land}, nil
}

// Resolve finds or creates the Building described by p, resolving its Land
// first. The Land row stays locked until the transaction ends so sibling
// buildings get distinct sequence numbers.
func (r *BuildingResolver) Resolve(ctx context.Context, tx repositories.Tx, p *dtos.BuildingPayload) (BuildingResult, error) {
	if p == nil {
		return BuildingResult{}, missingField("building")
	}

	ref, err := refFrom("building", p.ID, p.CustomID)
	if err != nil {
		return BuildingResult{}, err
	}
	if !ref.IsZero() {
		return r.Lookup(ctx, tx, ref)
	}

	name, err := r.sanitizer.RequireText("name", p.Name)
	if err != nil {
		return BuildingResult{}, err
	}
	size, err := r.sanitizer.RequireNonNegativeFloat("size", p.Size)
	if err != nil {
		return BuildingResult{}, err
	}
	description, err := r.sanitizer.RequireText("description", p.Description)
	if err != nil {
		return BuildingResult{}, err
	}
	floors, err := r.sanitizer.RequireInt("number_of_floors", p.NumberOfFloors)
	if err != nil {
		return BuildingResult{}, err
	}
	if p.Land == nil {
		return BuildingResult{}, missingField("land")
	}

	land, err := r.lands.Resolve(ctx, tx, p.Land)
	if err != nil {
		return BuildingResult{}, err
	}
	locked, err := tx.Lands().LockByID(ctx, land.Land.ID)
	if err != nil {
		return BuildingResult{}, err
	}
	if locked == nil {
		return BuildingResult{}, notFound(utils.ErrLandNotFound, "land not found")
	}

	find := func() (*models.Building, error) {
		return tx.Buildings().FindByNaturalKey(ctx, name, land.Land.ID)
	}
	existing, err := find()
	if err != nil {
		return BuildingResult{}, err
	}
	if existing != nil {
		return BuildingResult{Building: existing, Existed: true, Land: land}, nil
	}

	code, err := r.codes.Allocate(ctx, tx, land.Land.CustomID, ChildKindBuilding)
	if err != nil {
		return BuildingResult{}, err
	}

	b := &models.Building{
		ID:                   uuid.New(),
		CustomID:             code,
		LandID:               land.Land.ID,
		Name:                 name,
		NumberOfFloors:       floors,
		YearBuilt:            r.sanitizer.Int(p.YearBuilt),
		Type:                 r.sanitizer.Text(p.Type),
		Size:                 size,
		Description:          description,
		Features:             r.sanitizer.TextList(p.Features),
		Amenities:            r.sanitizer.TextList(p.Amenities),
		TotalBedrooms:        r.sanitizer.Int(p.TotalBedrooms),
		TotalBathrooms:       r.sanitizer.Int(p.TotalBathrooms),
		ParkingSpaces:        r.sanitizer.Int(p.ParkingSpaces),
		Utilities:            r.sanitizer.Text(p.Utilities),
		MaintenanceCost:      r.sanitizer.Float(p.MaintenanceCost),
		ManagementCompany:    r.sanitizer.Text(p.ManagementCompany),
		ConstructionMaterial: r.sanitizer.Text(p.ConstructionMaterial),
		Architect:            r.sanitizer.Text(p.Architect),
		Uses:                 r.sanitizer.Text(p.Uses),
		YearUpgraded:         r.sanitizer.Int(p.YearUpgraded),
	}

	winner, err := insertOrReread(ctx, tx, repositories.ConstraintBuildingNaturalKey,
		func(sp repositories.Tx) error { return sp.Buildings().Create(ctx, b) },
		find,
	)
	if err != nil {
		return BuildingResult{}, err
	}
	if winner != nil {
		utils.Logger.WithField("buildingID", winner.ID).Info("Concurrent building insert won, reusing it")
		return BuildingResult{Building: winner, Existed: true, Land: land}, nil
	}

	utils.Logger.WithFields(logrus.Fields{
		"buildingID": b.ID,
		"customID":   b.CustomID,
		"landID":     b.LandID,
	}).Info("Created building")
	return BuildingResult{Building: b, Existed: false, Land: land}, nil
}
