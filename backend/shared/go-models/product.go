package models

import (
	"time"

	"github.com/google/uuid"
)

type ProductStatus string

const (
	ProductStatusForRent ProductStatus = "forRent"
	ProductStatusForSale ProductStatus = "forSale"
	ProductStatusBoth    ProductStatus = "both"
)

type ProductCategory string

const (
	ProductCategoryAgricultural          ProductCategory = "agricultural"
	ProductCategoryVacantLand            ProductCategory = "vacantLand"
	ProductCategoryPlot                  ProductCategory = "plot"
	ProductCategoryOpenSpaceRecreational ProductCategory = "openSpaceRecreational"
)

// Product wraps a parcel for sale or lease. CustomID is copied from the
// underlying Land (or Building) so a parcel carries at most one Product.
type Product struct {
	ID         uuid.UUID       `json:"id"`
	CustomID   string          `json:"custom_id"`
	Status     ProductStatus   `json:"status"`
	Category   ProductCategory `json:"category"`
	Active     bool            `json:"active"`
	LandID     uuid.UUID       `json:"land_id"`
	BuildingID *uuid.UUID      `json:"building_id,omitempty"`
	MediaID    *uuid.UUID      `json:"media_id,omitempty"`
	LeaseID    *uuid.UUID      `json:"lease_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
