package models

import (
	"time"

	"github.com/google/uuid"
)

// Location is a geographic point shared by any number of Land parcels.
// Latitude and Longitude are normalized fixed-precision decimal strings so
// that (Country, Latitude, Longitude) compares exactly.
type Location struct {
	Versioned
	ID             uuid.UUID `json:"id"`
	Country        string    `json:"country"`
	StateRegion    *string   `json:"state_region,omitempty"`
	DistrictCounty *string   `json:"district_county,omitempty"`
	Ward           *string   `json:"ward,omitempty"`
	StreetVillage  *string   `json:"street_village,omitempty"`
	Latitude       string    `json:"latitude"`
	Longitude      string    `json:"longitude"`
	Geohash        string    `json:"geohash"`
	TimeZone       string    `json:"timezone"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
