package services

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/mmcloughlin/geohash"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/dtos"
	"github.com/plotline/mono-repo/backend/shared/go-models"
	"github.com/plotline/mono-repo/backend/shared/go-repositories"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
)

/*
Patcher applies partial updates. Each patch field that is set is sanitized
and compared with the stored value; only differing fields are written. When
nothing differs the row is left untouched, keeping its updated_at and
row_version.
*/
type Patcher struct {
	sanitizer *Sanitizer
}

func NewPatcher(sanitizer *Sanitizer) *Patcher {
	return &Patcher{sanitizer: sanitizer}
}

func set[T comparable](dst *T, v T) bool {
	if *dst == v {
		return false
	}
	*dst = v
	return true
}

func setOptional[T comparable](dst **T, v *T) bool {
	switch {
	case *dst == nil && v == nil:
		return false
	case *dst != nil && v != nil && **dst == *v:
		return false
	}
	*dst = v
	return true
}

func setList(dst *[]string, v []string) bool {
	if slices.Equal(*dst, v) {
		return false
	}
	*dst = v
	return true
}

func setTime(dst **time.Time, v *time.Time) bool {
	if *dst != nil && v != nil && (*dst).Equal(*v) {
		return false
	}
	if *dst == nil && v == nil {
		return false
	}
	*dst = v
	return true
}

// requiredText sanitizes a patch value for a column that may not be empty.
func (p *Patcher) requiredText(field string, raw *string) (string, error) {
	v := p.sanitizer.Text(raw)
	if v == nil {
		return "", invalidField(field, "must not be empty")
	}
	return *v, nil
}

func mapUpdateError(err error, missing error, what string, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return notFound(missing, what+" not found")
	case repositories.IsUniqueViolation(err):
		return conflict(err, conflictMsg)
	case errors.Is(err, repositories.ErrContention):
		return rowVersionConflict(what, err)
	}
	return err
}

func (p *Patcher) PatchLocation(ctx context.Context, tx repositories.Tx, id uuid.UUID, patch dtos.LocationPatch) (*models.Location, error) {
	if err := validate.Struct(patch); err != nil {
		return nil, structValidationError("location patch", err)
	}
	var country string
	if patch.Country != nil {
		c, err := p.requiredText("country", patch.Country)
		if err != nil {
			return nil, err
		}
		country = c
	}

	err := tx.Locations().UpdateWithRetry(ctx, id, func(l *models.Location) error {
		changed := false
		if patch.Country != nil {
			changed = set(&l.Country, country) || changed
		}
		if patch.StateRegion != nil {
			changed = setOptional(&l.StateRegion, p.sanitizer.Text(patch.StateRegion)) || changed
		}
		if patch.DistrictCounty != nil {
			changed = setOptional(&l.DistrictCounty, p.sanitizer.Text(patch.DistrictCounty)) || changed
		}
		if patch.Ward != nil {
			changed = setOptional(&l.Ward, p.sanitizer.Text(patch.Ward)) || changed
		}
		if patch.StreetVillage != nil {
			changed = setOptional(&l.StreetVillage, p.sanitizer.Text(patch.StreetVillage)) || changed
		}

		moved := false
		if patch.Latitude != nil {
			moved = set(&l.Latitude, NormalizeCoordinate(*patch.Latitude)) || moved
		}
		if patch.Longitude != nil {
			moved = set(&l.Longitude, NormalizeCoordinate(*patch.Longitude)) || moved
		}
		if moved {
			lat, _ := strconv.ParseFloat(l.Latitude, 64)
			lng, _ := strconv.ParseFloat(l.Longitude, 64)
			l.Geohash = geohash.EncodeWithPrecision(lat, lng, utils.GeohashPrecision)
			l.TimeZone = timeZoneAt(lat, lng)
		}

		if !changed && !moved {
			return repositories.ErrUnchanged
		}
		return nil
	})
	if err := mapUpdateError(err, utils.ErrLocationNotFound, "location",
		"another location already exists at these coordinates"); err != nil {
		return nil, err
	}
	return tx.Locations().GetByID(ctx, id)
}

func (p *Patcher) PatchLand(ctx context.Context, tx repositories.Tx, id uuid.UUID, patch dtos.LandPatch) (*models.Land, error) {
	if err := validate.Struct(patch); err != nil {
		return nil, structValidationError("land patch", err)
	}
	var name, description string
	var err error
	if patch.Name != nil {
		if name, err = p.requiredText("name", patch.Name); err != nil {
			return nil, err
		}
	}
	if patch.Description != nil {
		if description, err = p.requiredText("description", patch.Description); err != nil {
			return nil, err
		}
	}

	err = tx.Lands().UpdateWithRetry(ctx, id, func(l *models.Land) error {
		changed := false
		if patch.Name != nil {
			changed = set(&l.Name, name) || changed
		}
		if patch.Size != nil {
			changed = set(&l.Size, *patch.Size) || changed
		}
		if patch.Description != nil {
			changed = set(&l.Description, description) || changed
		}
		if patch.Features != nil {
			changed = setList(&l.Features, p.sanitizer.TextList(*patch.Features)) || changed
		}
		if patch.Zoning != nil {
			changed = setOptional(&l.Zoning, p.sanitizer.Text(patch.Zoning)) || changed
		}
		if patch.SoilStructure != nil {
			changed = setOptional(&l.SoilStructure, p.sanitizer.Text(patch.SoilStructure)) || changed
		}
		if patch.Topography != nil {
			changed = setOptional(&l.Topography, p.sanitizer.Text(patch.Topography)) || changed
		}
		if patch.PostalZipCode != nil {
			changed = setOptional(&l.PostalZipCode, p.sanitizer.Text(patch.PostalZipCode)) || changed
		}
		if patch.Registered != nil {
			changed = set(&l.Registered, *patch.Registered) || changed
		}
		if patch.RegistrationDate != nil {
			changed = setTime(&l.RegistrationDate, patch.RegistrationDate) || changed
		}
		if patch.Accessibility != nil {
			changed = setOptional(&l.Accessibility, p.sanitizer.Text(patch.Accessibility)) || changed
		}
		if !changed {
			return repositories.ErrUnchanged
		}
		return nil
	})
	if err := mapUpdateError(err, utils.ErrLandNotFound, "land",
		"another land with this name already exists at this location"); err != nil {
		return nil, err
	}
	return tx.Lands().GetByID(ctx, id)
}

func (p *Patcher) PatchBuilding(ctx context.Context, tx repositories.Tx, id uuid.UUID, patch dtos.BuildingPatch) (*models.Building, error) {
	if err := validate.Struct(patch); err != nil {
		return nil, structValidationError("building patch", err)
	}
	var name, description string
	var err error
	if patch.Name != nil {
		if name, err = p.requiredText("name", patch.Name); err != nil {
			return nil, err
		}
	}
	if patch.Description != nil {
		if description, err = p.requiredText("description", patch.Description); err != nil {
			return nil, err
		}
	}

	s := p.sanitizer
	err = tx.Buildings().UpdateWithRetry(ctx, id, func(b *models.Building) error {
		changed := false
		if patch.Name != nil {
			changed = set(&b.Name, name) || changed
		}
		if patch.NumberOfFloors != nil {
			changed = set(&b.NumberOfFloors, *patch.NumberOfFloors) || changed
		}
		if patch.YearBuilt != nil {
			changed = setOptional(&b.YearBuilt, patch.YearBuilt) || changed
		}
		if patch.Type != nil {
			changed = setOptional(&b.Type, s.Text(patch.Type)) || changed
		}
		if patch.Size != nil {
			changed = set(&b.Size, *patch.Size) || changed
		}
		if patch.Description != nil {
			changed = set(&b.Description, description) || changed
		}
		if patch.Features != nil {
			changed = setList(&b.Features, s.TextList(*patch.Features)) || changed
		}
		if patch.Amenities != nil {
			changed = setList(&b.Amenities, s.TextList(*patch.Amenities)) || changed
		}
		if patch.TotalBedrooms != nil {
			changed = setOptional(&b.TotalBedrooms, patch.TotalBedrooms) || changed
		}
		if patch.TotalBathrooms != nil {
			changed = setOptional(&b.TotalBathrooms, patch.TotalBathrooms) || changed
		}
		if patch.ParkingSpaces != nil {
			changed = setOptional(&b.ParkingSpaces, patch.ParkingSpaces) || changed
		}
		if patch.Utilities != nil {
			changed = setOptional(&b.Utilities, s.Text(patch.Utilities)) || changed
		}
		if patch.MaintenanceCost != nil {
			changed = setOptional(&b.MaintenanceCost, patch.MaintenanceCost) || changed
		}
		if patch.ManagementCompany != nil {
			changed = setOptional(&b.ManagementCompany, s.Text(patch.ManagementCompany)) || changed
		}
		if patch.ConstructionMaterial != nil {
			changed = setOptional(&b.ConstructionMaterial, s.Text(patch.ConstructionMaterial)) || changed
		}
		if patch.Architect != nil {
			changed = setOptional(&b.Architect, s.Text(patch.Architect)) || changed
		}
		if patch.Uses != nil {
			changed = setOptional(&b.Uses, s.Text(patch.Uses)) || changed
		}
		if patch.YearUpgraded != nil {
			changed = setOptional(&b.YearUpgraded, patch.YearUpgraded) || changed
		}
		if !changed {
			return repositories.ErrUnchanged
		}
		return nil
	})
	if err := mapUpdateError(err, utils.ErrBuildingNotFound, "building",
		"another building with this name already exists on this land"); err != nil {
		return nil, err
	}
	return tx.Buildings().GetByID(ctx, id)
}

func (p *Patcher) PatchUnit(ctx context.Context, tx repositories.Tx, id uuid.UUID, patch dtos.UnitPatch) (*models.Unit, error) {
	if err := validate.Struct(patch); err != nil {
		return nil, structValidationError("unit patch", err)
	}
	var name string
	if patch.Name != nil {
		n, err := p.requiredText("name", patch.Name)
		if err != nil {
			return nil, err
		}
		name = n
	}

	s := p.sanitizer
	err := tx.Units().UpdateWithRetry(ctx, id, func(u *models.Unit) error {
		changed := false
		if patch.Name != nil {
			changed = set(&u.Name, name) || changed
		}
		if patch.Bedrooms != nil {
			changed = setOptional(&u.Bedrooms, patch.Bedrooms) || changed
		}
		if patch.Bathrooms != nil {
			changed = setOptional(&u.Bathrooms, patch.Bathrooms) || changed
		}
		if patch.FloorLevel != nil {
			changed = set(&u.FloorLevel, *patch.FloorLevel) || changed
		}
		if patch.Size != nil {
			changed = set(&u.Size, *patch.Size) || changed
		}
		if patch.Description != nil {
			changed = setOptional(&u.Description, s.Text(patch.Description)) || changed
		}
		if patch.Amenities != nil {
			changed = setList(&u.Amenities, s.TextList(*patch.Amenities)) || changed
		}
		if patch.Features != nil {
			changed = setList(&u.Features, s.TextList(*patch.Features)) || changed
		}
		if patch.Utilities != nil {
			changed = setOptional(&u.Utilities, s.Text(patch.Utilities)) || changed
		}
		if patch.UnitType != nil {
			changed = setOptional(&u.UnitType, s.Text(patch.UnitType)) || changed
		}
		if !changed {
			return repositories.ErrUnchanged
		}
		return nil
	})
	if err := mapUpdateError(err, utils.ErrUnitNotFound, "unit",
		"another unit with this name already exists in this building"); err != nil {
		return nil, err
	}
	return tx.Units().GetByID(ctx, id)
}
