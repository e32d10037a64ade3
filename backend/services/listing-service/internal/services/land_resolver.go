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

type LandResolver struct {
	sanitizer *Sanitizer
	locations *LocationResolver
	codes     *RootCodeAllocator
}

func NewLandResolver(
	sanitizer *Sanitizer,
	locations *LocationResolver,
	codes *RootCodeAllocator,
) *LandResolver {
	return &LandResolver{sanitizer: sanitizer, locations: locations, codes: codes}
}

// Lookup loads an existing Land and its Location.
func (r *LandResolver) Lookup(ctx context.Context, tx repositories.Tx, ref models.EntityRef) (LandResult, error) {
	var (
		land *models.Land
		err  error
	)
	switch ref.Kind() {
	case models.RefBySystemID:
		land, err = tx.Lands().GetByID(ctx, ref.SystemID())
	case models.RefByCustomID:
		land, err = tx.Lands().GetByCustomID(ctx, ref.CustomID())
	default:
		return LandResult{}, missingField("land reference")
	}
	if err != nil {
		return LandResult{}, err
	}
	if land == nil {
		return LandResult{}, notFound(utils.ErrLandNotFound, "land not found")
	}

	loc, err := tx.Locations().GetByID(ctx, land.LocationID)
	if err != nil {
		return LandResult{}, err
	}
	if loc == nil {
		return LandResult{}, notFound(utils.ErrLocationNotFound, "location of land not found")
	}
	return LandResult{
		Land:     land,
		Existed:  true,
		Location: LocationResult{Location: loc, Existed: true},
	}, nil
}

// Resolve finds or creates the Land described by p. A payload carrying id or
// custom_id only looks the Land up; its location fields are ignored.
func (r *LandResolver) Resolve(ctx context.Context, tx repositories.Tx, p *dtos.LandPayload) (LandResult, error) {
	if p == nil {
		return LandResult{}, missingField("land")
	}

	ref, err := refFrom("land", p.ID, p.CustomID)
	if err != nil {
		return LandResult{}, err
	}
	if !ref.IsZero() {
		return r.Lookup(ctx, tx, ref)
	}

	name, err := r.sanitizer.RequireText("name", p.Name)
	if err != nil {
		return LandResult{}, err
	}
	size, err := r.sanitizer.RequireNonNegativeFloat("size", p.Size)
	if err != nil {
		return LandResult{}, err
	}
	description, err := r.sanitizer.RequireText("description", p.Description)
	if err != nil {
		return LandResult{}, err
	}
	if p.Location == nil {
		return LandResult{}, missingField("location")
	}

	loc, err := r.locations.Resolve(ctx, tx, p.Location)
	if err != nil {
		return LandResult{}, err
	}

	find := func() (*models.Land, error) {
		return tx.Lands().FindByNaturalKey(ctx, name, loc.Location.ID)
	}
	existing, err := find()
	if err != nil {
		return LandResult{}, err
	}
	if existing != nil {
		return LandResult{Land: existing, Existed: true, Location: loc}, nil
	}

	land := &models.Land{
		ID:               uuid.New(),
		LocationID:       loc.Location.ID,
		Name:             name,
		Size:             size,
		Description:      description,
		Features:         r.sanitizer.TextList(p.Features),
		Zoning:           r.sanitizer.Text(p.Zoning),
		SoilStructure:    r.sanitizer.Text(p.SoilStructure),
		Topography:       r.sanitizer.Text(p.Topography),
		PostalZipCode:    r.sanitizer.Text(p.PostalZipCode),
		Registered:       utils.Val(r.sanitizer.Bool(p.Registered)),
		RegistrationDate: r.sanitizer.Date(p.RegistrationDate),
		Accessibility:    r.sanitizer.Text(p.Accessibility),
	}

	for {
		code, err := r.codes.Allocate(ctx, tx)
		if err != nil {
			return LandResult{}, err
		}
		land.CustomID = code

		winner, err := insertOrReread(ctx, tx, repositories.ConstraintLandNaturalKey,
			func(sp repositories.Tx) error { return sp.Lands().Create(ctx, land) },
			find,
		)
		if err != nil {
			if repositories.ViolatedConstraint(err) == repositories.ConstraintLandCustomID {
				utils.Logger.WithField("code", code).Warn("Land code taken by a concurrent insert, drawing another")
				continue
			}
			return LandResult{}, err
		}
		if winner != nil {
			utils.Logger.WithField("landID", winner.ID).Info("Concurrent land insert won, reusing it")
			return LandResult{Land: winner, Existed: true, Location: loc}, nil
		}
		break
	}

	utils.Logger.WithFields(logrus.Fields{
		"landID":     land.ID,
		"customID":   land.CustomID,
		"locationID": land.LocationID,
	}).Info("Created land")
	return LandResult{Land: land, Existed: false, Location: loc}, nil
}
