package services

import (
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/dtos"
	"github.com/plotline/mono-repo/backend/shared/go-models"
)

// Resolver results carry the full ancestor chain so callers can report
// every identifier without another round trip.

type LocationResult struct {
	Location *models.Location
	Existed  bool
}

type LandResult struct {
	Land     *models.Land
	Existed  bool
	Location LocationResult
}

type BuildingResult struct {
	Building *models.Building
	Existed  bool
	Land     LandResult
}

type UnitResult struct {
	Unit     *models.Unit
	Existed  bool
	Building BuildingResult
}

func (r LocationResult) entity() dtos.ResolvedEntity {
	return dtos.ResolvedEntity{ID: r.Location.ID, Existed: r.Existed}
}

func (r LandResult) entity() dtos.ResolvedEntity {
	return dtos.ResolvedEntity{ID: r.Land.ID, CustomID: r.Land.CustomID, Existed: r.Existed}
}

func (r BuildingResult) entity() dtos.ResolvedEntity {
	return dtos.ResolvedEntity{ID: r.Building.ID, CustomID: r.Building.CustomID, Existed: r.Existed}
}

func (r UnitResult) entity() dtos.ResolvedEntity {
	return dtos.ResolvedEntity{ID: r.Unit.ID, CustomID: r.Unit.CustomID, Existed: r.Existed}
}
