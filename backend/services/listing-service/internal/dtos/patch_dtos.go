package dtos

import "time"

/*
Patch requests carry only the fields the caller wants to change. A nil
field is left as is. Text fields are sanitized before being compared with
the stored value, so resending an unchanged value does not write.
*/

type LocationPatch struct {
	Country        *string  `json:"country,omitempty"`
	StateRegion    *string  `json:"state_region,omitempty"`
	DistrictCounty *string  `json:"district_county,omitempty"`
	Ward           *string  `json:"ward,omitempty"`
	StreetVillage  *string  `json:"street_village,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

type LandPatch struct {
	Name             *string    `json:"name,omitempty"`
	Size             *float64   `json:"size,omitempty" validate:"omitempty,gte=0"`
	Description      *string    `json:"description,omitempty"`
	Features         *[]string  `json:"features,omitempty"`
	Zoning           *string    `json:"zoning,omitempty"`
	SoilStructure    *string    `json:"soil_structure,omitempty"`
	Topography       *string    `json:"topography,omitempty"`
	PostalZipCode    *string    `json:"postal_zip_code,omitempty"`
	Registered       *bool      `json:"registered,omitempty"`
	RegistrationDate *time.Time `json:"registration_date,omitempty"`
	Accessibility    *string    `json:"accessibility,omitempty"`
}

type BuildingPatch struct {
	Name                 *string   `json:"name,omitempty"`
	NumberOfFloors       *int      `json:"number_of_floors,omitempty" validate:"omitempty,gte=0"`
	YearBuilt            *int      `json:"year_built,omitempty"`
	Type                 *string   `json:"type,omitempty"`
	Size                 *float64  `json:"size,omitempty" validate:"omitempty,gte=0"`
	Description          *string   `json:"description,omitempty"`
	Features             *[]string `json:"features,omitempty"`
	Amenities            *[]string `json:"amenities,omitempty"`
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
}

type UnitPatch struct {
	Name        *string   `json:"name,omitempty"`
	Bedrooms    *int      `json:"bedrooms,omitempty"`
	Bathrooms   *int      `json:"bathrooms,omitempty"`
	FloorLevel  *int      `json:"floor_level,omitempty"`
	Size        *float64  `json:"size,omitempty" validate:"omitempty,gte=0"`
	Description *string   `json:"description,omitempty"`
	Amenities   *[]string `json:"amenities,omitempty"`
	Features    *[]string `json:"features,omitempty"`
	Utilities   *string   `json:"utilities,omitempty"`
	UnitType    *string   `json:"unit_type,omitempty"`
}
