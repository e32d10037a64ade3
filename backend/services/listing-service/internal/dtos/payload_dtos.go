package dtos

import (
	"github.com/google/uuid"
)

/*
Create payloads nest the way the hierarchy does: a UnitPayload may carry a
BuildingPayload, which may carry a LandPayload, which may carry a
LocationPayload. Each level either references an existing row (ID or
CustomID) or describes one to find-or-create.

Numeric, boolean and date fields are typed `any` so that both JSON numbers
and numeric strings are accepted; the sanitizer coerces them.
*/

type LocationPayload struct {
	LocationID     *uuid.UUID `json:"location_id,omitempty"`
	Country        *string    `json:"country,omitempty"`
	StateRegion    *string    `json:"state_region,omitempty"`
	DistrictCounty *string    `json:"district_county,omitempty"`
	Ward           *string    `json:"ward,omitempty"`
	StreetVillage  *string    `json:"street_village,omitempty"`
	Latitude       any        `json:"latitude,omitempty"`
	Longitude      any        `json:"longitude,omitempty"`
}

type LandPayload struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	CustomID *string    `json:"custom_id,omitempty"`

	Name             *string          `json:"name,omitempty"`
	Size             any              `json:"size,omitempty"`
	Description      *string          `json:"description,omitempty"`
	Features         []string         `json:"features,omitempty"`
	Zoning           *string          `json:"zoning,omitempty"`
	SoilStructure    *string          `json:"soil_structure,omitempty"`
	Topography       *string          `json:"topography,omitempty"`
	PostalZipCode    *string          `json:"postal_zip_code,omitempty"`
	Registered       any              `json:"registered,omitempty"`
	RegistrationDate any              `json:"registration_date,omitempty"`
	Accessibility    *string          `json:"accessibility,omitempty"`
	Location         *LocationPayload `json:"location,omitempty"`
}

type BuildingPayload struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	CustomID *string    `json:"custom_id,omitempty"`

	Name                 *string      `json:"name,omitempty"`
	NumberOfFloors       any          `json:"number_of_floors,omitempty"`
	YearBuilt            any          `json:"year_built,omitempty"`
	Type                 *string      `json:"type,omitempty"`
	Size                 any          `json:"size,omitempty"`
	Description          *string      `json:"description,omitempty"`
	Features             []string     `json:"features,omitempty"`
	Amenities            []string     `json:"amenities,omitempty"`
	TotalBedrooms        any          `json:"total_bedrooms,omitempty"`
	TotalBathrooms       any          `json:"total_bathrooms,omitempty"`
	ParkingSpaces        any          `json:"parking_spaces,omitempty"`
	Utilities            *string      `json:"utilities,omitempty"`
	MaintenanceCost      any          `json:"maintenance_cost,omitempty"`
	ManagementCompany    *string      `json:"management_company,omitempty"`
	ConstructionMaterial *string      `json:"construction_material,omitempty"`
	Architect            *string      `json:"architect,omitempty"`
	Uses                 *string      `json:"uses,omitempty"`
	YearUpgraded         any          `json:"year_upgraded,omitempty"`
	Land                 *LandPayload `json:"land,omitempty"`
}

type UnitPayload struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	CustomID *string    `json:"custom_id,omitempty"`

	Name        *string          `json:"name,omitempty"`
	Bedrooms    any              `json:"bedrooms,omitempty"`
	Bathrooms   any              `json:"bathrooms,omitempty"`
	FloorLevel  any              `json:"floor_level,omitempty"`
	Size        any              `json:"size,omitempty"`
	Description *string          `json:"description,omitempty"`
	Amenities   []string         `json:"amenities,omitempty"`
	Features    []string         `json:"features,omitempty"`
	Utilities   *string          `json:"utilities,omitempty"`
	UnitType    *string          `json:"unit_type,omitempty"`
	Building    *BuildingPayload `json:"building,omitempty"`
}

// ProductPayload wraps exactly one parcel, a Land or a Building.
type ProductPayload struct {
	Status   string           `json:"status" validate:"required,oneof=forRent forSale both"`
	Category string           `json:"category" validate:"required,oneof=agricultural vacantLand plot openSpaceRecreational"`
	Active   *bool            `json:"active,omitempty"`
	Land     *LandPayload     `json:"land,omitempty" validate:"required_without=Building,excluded_with=Building"`
	Building *BuildingPayload `json:"building,omitempty"`
	Lease    *LeasePayload    `json:"lease,omitempty"`
	Media    *MediaPayload    `json:"media,omitempty"`
}

type LeasePayload struct {
	Price              any     `json:"price,omitempty"`
	RentalPeriod       *string `json:"rental_period,omitempty" validate:"omitempty,oneof=daily weekly monthly yearly"`
	DiscountPrice      any     `json:"discount_price,omitempty"`
	DiscountDuration   *string `json:"discount_duration,omitempty"`
	Status             *string `json:"status,omitempty"`
	TermsAndConditions *string `json:"terms_and_conditions,omitempty"`
}

type MediaPayload struct {
	ImageURL               *string `json:"image_url,omitempty"`
	ImageTitle             *string `json:"image_title,omitempty"`
	ImageDescription       *string `json:"image_description,omitempty"`
	VideoURL               *string `json:"video_url,omitempty"`
	VideoTitle             *string `json:"video_title,omitempty"`
	VideoDescription       *string `json:"video_description,omitempty"`
	VirtualTourURL         *string `json:"virtual_tour_url,omitempty"`
	VirtualTourTitle       *string `json:"virtual_tour_title,omitempty"`
	VirtualTourDescription *string `json:"virtual_tour_description,omitempty"`
}

// NextCodeRequest previews the next child code under a parent.
type NextCodeRequest struct {
	ParentCode string `json:"parent_code" validate:"required,alphanum"`
	Kind       string `json:"kind" validate:"required,oneof=building unit"`
}
