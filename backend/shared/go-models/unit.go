// go-models/unit.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Unit represents a rentable space inside a specific building. Its CustomID
// extends the Building code with another three digit sequence.
type Unit struct {
	Versioned
	ID          uuid.UUID `json:"id"`
	CustomID    string    `json:"custom_id"`
	BuildingID  uuid.UUID `json:"building_id"`
	Name        string    `json:"name"`
	Bedrooms    *int      `json:"bedrooms,omitempty"`
	Bathrooms   *int      `json:"bathrooms,omitempty"`
	FloorLevel  int       `json:"floor_level"`
	Size        float64   `json:"size"`
	Description *string   `json:"description,omitempty"`
	Amenities   []string  `json:"amenities"`
	Features    []string  `json:"features"`
	Utilities   *string   `json:"utilities,omitempty"`
	UnitType    *string   `json:"unit_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
