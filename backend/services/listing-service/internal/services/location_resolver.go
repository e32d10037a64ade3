package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/bradfitz/latlong"
	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/dtos"
	"github.com/plotline/mono-repo/backend/shared/go-models"
	"github.com/plotline/mono-repo/backend/shared/go-repositories"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
)

type coordinates struct {
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
}

// NormalizeCoordinate renders a coordinate the way it is stored and compared.
func NormalizeCoordinate(v float64) string {
	s := strconv.FormatFloat(v, 'f', utils.CoordinatePrecision, 64)
	if s[0] == '-' && strings.Trim(s[1:], "0.") == "" {
		return s[1:]
	}
	return s
}

func timeZoneAt(lat, lng float64) string {
	if tz := latlong.LookupZoneName(lat, lng); tz != "" {
		return tz
	}
	return "UTC"
}

type LocationResolver struct {
	sanitizer *Sanitizer
}

func NewLocationResolver(sanitizer *Sanitizer) *LocationResolver {
	return &LocationResolver{sanitizer: sanitizer}
}

// Resolve finds or creates the Location described by p. An explicit
// LocationID skips the natural-key search and must exist.
func (r *LocationResolver) Resolve(ctx context.Context, tx repositories.Tx, p *dtos.LocationPayload) (LocationResult, error) {
	if p == nil {
		return LocationResult{}, missingField("location")
	}

	if p.LocationID != nil {
		loc, err := tx.Locations().GetByID(ctx, *p.LocationID)
		if err != nil {
			return LocationResult{}, err
		}
		if loc == nil {
			return LocationResult{}, notFound(utils.ErrLocationNotFound, "location not found")
		}
		return LocationResult{Location: loc, Existed: true}, nil
	}

	country, err := r.sanitizer.RequireText("country", p.Country)
	if err != nil {
		return LocationResult{}, err
	}
	lat, err := r.sanitizer.RequireFloat("latitude", p.Latitude)
	if err != nil {
		return LocationResult{}, err
	}
	lng, err := r.sanitizer.RequireFloat("longitude", p.Longitude)
	if err != nil {
		return LocationResult{}, err
	}
	if err := validate.Struct(coordinates{Latitude: lat, Longitude: lng}); err != nil {
		return LocationResult{}, structValidationError("location", err)
	}

	latStr, lngStr := NormalizeCoordinate(lat), NormalizeCoordinate(lng)
	find := func() (*models.Location, error) {
		return tx.Locations().FindByNaturalKey(ctx, country, latStr, lngStr)
	}

	existing, err := find()
	if err != nil {
		return LocationResult{}, err
	}
	if existing != nil {
		return LocationResult{Location: existing, Existed: true}, nil
	}

	// Derived fields use the stored precision so they agree with the key.
	nlat, _ := strconv.ParseFloat(latStr, 64)
	nlng, _ := strconv.ParseFloat(lngStr, 64)
	loc := &models.Location{
		ID:             uuid.New(),
		Country:        country,
		StateRegion:    r.sanitizer.Text(p.StateRegion),
		DistrictCounty: r.sanitizer.Text(p.DistrictCounty),
		Ward:           r.sanitizer.Text(p.Ward),
		StreetVillage:  r.sanitizer.Text(p.StreetVillage),
		Latitude:       latStr,
		Longitude:      lngStr,
		Geohash:        geohash.EncodeWithPrecision(nlat, nlng, utils.GeohashPrecision),
		TimeZone:       timeZoneAt(nlat, nlng),
	}

	winner, err := insertOrReread(ctx, tx, repositories.ConstraintLocationNaturalKey,
		func(sp repositories.Tx) error { return sp.Locations().Create(ctx, loc) },
		find,
	)
	if err != nil {
		return LocationResult{}, err
	}
	if winner != nil {
		utils.Logger.WithField("locationID", winner.ID).Info("Concurrent location insert won, reusing it")
		return LocationResult{Location: winner, Existed: true}, nil
	}

	utils.Logger.WithFields(logrus.Fields{
		"locationID": loc.ID,
		"country":    loc.Country,
		"geohash":    loc.Geohash,
	}).Info("Created location")
	return LocationResult{Location: loc, Existed: false}, nil
}
