package models

import (
	"time"

	"github.com/google/uuid"
)

type Media struct {
	ID                     uuid.UUID `json:"id"`
	ImageURL               *string   `json:"image_url,omitempty"`
	ImageTitle             *string   `json:"image_title,omitempty"`
	ImageDescription       *string   `json:"image_description,omitempty"`
	VideoURL               *string   `json:"video_url,omitempty"`
	VideoTitle             *string   `json:"video_title,omitempty"`
	VideoDescription       *string   `json:"video_description,omitempty"`
	VirtualTourURL         *string   `json:"virtual_tour_url,omitempty"`
	VirtualTourTitle       *string   `json:"virtual_tour_title,omitempty"`
	VirtualTourDescription *string   `json:"virtual_tour_description,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
}
