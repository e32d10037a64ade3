package dtos

import (
	"github.com/google/uuid"
	"github.com/plotline/mono-repo/backend/shared/go-models"
)

// ResolvedEntity is one link of the identifier chain returned by a resolve.
type ResolvedEntity struct {
	ID       uuid.UUID `json:"id"`
	CustomID string    `json:"custom_id,omitempty"`
	Existed  bool      `json:"existed"`
}

type ResolveLocationResponse struct {
	Location ResolvedEntity `json:"location"`
}

type ResolveLandResponse struct {
	Land     ResolvedEntity `json:"land"`
	Location ResolvedEntity `json:"location"`
}

type ResolveBuildingResponse struct {
	Building ResolvedEntity `json:"building"`
	Land     ResolvedEntity `json:"land"`
	Location ResolvedEntity `json:"location"`
}

type ResolveUnitResponse struct {
	Unit     ResolvedEntity `json:"unit"`
	Building ResolvedEntity `json:"building"`
	Land     ResolvedEntity `json:"land"`
	Location ResolvedEntity `json:"location"`
}

type AssembleProductResponse struct {
	Product  models.Product  `json:"product"`
	LeaseID  *uuid.UUID      `json:"lease_id,omitempty"`
	MediaID  *uuid.UUID      `json:"media_id,omitempty"`
	Land     ResolvedEntity  `json:"land"`
	Building *ResolvedEntity `json:"building,omitempty"`
}

type NextCodeResponse struct {
	ParentCode string `json:"parent_code"`
	Kind       string `json:"kind"`
	Code       string `json:"code"`
}

// Read responses embed the ancestor chain of the requested entity.

type LandResponse struct {
	Land     models.Land     `json:"land"`
	Location models.Location `json:"location"`
}

type BuildingResponse struct {
	Building models.Building `json:"building"`
	Land     models.Land     `json:"land"`
	Location models.Location `json:"location"`
}

type UnitResponse struct {
	Unit     models.Unit     `json:"unit"`
	Building models.Building `json:"building"`
	Land     models.Land     `json:"land"`
	Location models.Location `json:"location"`
}

type ProductResponse struct {
	Product  models.Product   `json:"product"`
	Land     models.Land      `json:"land"`
	Building *models.Building `json:"building,omitempty"`
	Lease    *models.Lease    `json:"lease,omitempty"`
	Media    *models.Media    `json:"media,omitempty"`
}

// DeleteSummary counts the rows removed by a cascade delete.
type DeleteSummary struct {
	Products  int `json:"products"`
	Leases    int `json:"leases"`
	Media     int `json:"media"`
	Units     int `json:"units"`
	Buildings int `json:"buildings"`
	Lands     int `json:"lands"`
	Locations int `json:"locations"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
