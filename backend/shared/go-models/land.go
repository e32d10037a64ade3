package models

import (
	"time"

	"github.com/google/uuid"
)

// Land is the root of the identifier hierarchy. CustomID is a random
// six-character alphanumeric code, unique across all Land rows.
type Land struct {
	Versioned
	ID               uuid.UUID  `json:"id"`
	CustomID         string     `json:"custom_id"`
	LocationID       uuid.UUID  `json:"location_id"`
	Name             string     `json:"name"`
	Size             float64    `json:"size"`
	Description      string     `json:"description"`
	Features         []string   `json:"features"`
	Zoning           *string    `json:"zoning,omitempty"`
	SoilStructure    *string    `json:"soil_structure,omitempty"`
	Topography       *string    `json:"topography,omitempty"`
	PostalZipCode    *string    `json:"postal_zip_code,omitempty"`
	Registered       bool       `json:"registered"`
	RegistrationDate *time.Time `json:"registration_date,omitempty"`
	Accessibility    *string    `json:"accessibility,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
