package models

import (
	"time"

	"github.com/google/uuid"
)

// Building sits on exactly one Land. Its CustomID is the Land code followed
// by a zero-padded three digit sequence.
type Building struct {
	Versioned
	ID                   uuid.UUID `json:"id"`
	CustomID             string    `json:"custom_id"`
	LandID               uuid.UUID `json:"land_id"`
	Name                 string    `json:"name"`
	NumberOfFloors       int       `json:"number_of_floors"`
	YearBuilt            *int      `json:"year_built,omitempty"`
	Type                 *string   `json:"type,omitempty"`
	Size                 float64   `json:"size"`
	Description          string    `json:"description"`
	Features             []string  `json:"features"`
	Amenities            []string  `json:"amenities"`
	TotalBedrooms        *int      `json:"total_bedrooms,omitempty"`
	TotalBathrooms       *int      `json:"total_bathrooms,omitempty"`
	ParkingSpaces        *int      `json:"parking_spaces,omitempty"`
	Utilities            *string   `json:"utilities,omitempty"`
	MaintenanceCost      *float64  `json:"maintenance_cost,omitempty"`
	ManagementCompany    *string   `json:"management_company,omitempty"`
	ConstructionMaterial *string   `json:"construction_material,omitempty"`
	Architect            *string   `json:"architect,omitempty"`
	Uses                 *string   `json:"uses,omitempty"`
	YearUpgraded         *int      `json:"year_upgraded,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
