package models

import (
	"time"

	"github.com/google/uuid"
)

type RentalPeriod string

const (
	RentalPeriodDaily   RentalPeriod = "daily"
	RentalPeriodWeekly  RentalPeriod = "weekly"
	RentalPeriodMonthly RentalPeriod = "monthly"
	RentalPeriodYearly  RentalPeriod = "yearly"
)

// Lease holds pricing terms. ProductID is back-filled once the owning
// Product row exists.
type Lease struct {
	ID                 uuid.UUID     `json:"id"`
	ProductID          *uuid.UUID    `json:"product_id,omitempty"`
	Price              float64       `json:"price"`
	RentalPeriod       *RentalPeriod `json:"rental_period,omitempty"`
	DiscountPrice      *float64      `json:"discount_price,omitempty"`
	DiscountDuration   *string       `json:"discount_duration,omitempty"`
	Status             *string       `json:"status,omitempty"`
	TermsAndConditions *string       `json:"terms_and_conditions,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}
