package seeding

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bradfitz/latlong"
	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"github.com/plotline/mono-repo/backend/shared/go-models"
	"github.com/plotline/mono-repo/backend/shared/go-repositories"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
)

// Fixed identifiers of the demo estate. DemoLandID doubles as the sentinel
// that tells a later run the estate is already there.
const (
	DemoLandID      = "5e0d1a2b-7c3f-4a51-9b6e-0a1b2c3d0001"
	DemoBuildingAID = "5e0d1a2b-7c3f-4a51-9b6e-0a1b2c3d0002"
	DemoBuildingBID = "5e0d1a2b-7c3f-4a51-9b6e-0a1b2c3d0003"
	DemoProductID   = "5e0d1a2b-7c3f-4a51-9b6e-0a1b2c3d0004"

	DemoLandCode = "DEMO01"
)

const (
	demoCountry   = "Tanzania"
	demoLatitude  = -3.386925
	demoLongitude = 36.682995
)

type demoUnit struct {
	name     string
	bedrooms int
	floor    int
}

type demoBuilding struct {
	id     string
	name   string
	floors int
	units  []demoUnit
}

var demoBuildings = []demoBuilding{
	{
		id:     DemoBuildingAID,
		name:   "Block A",
		floors: 3,
		units: []demoUnit{
			{name: "A-101", bedrooms: 2, floor: 1},
			{name: "A-102", bedrooms: 1, floor: 1},
			{name: "A-201", bedrooms: 3, floor: 2},
		},
	},
	{
		id:     DemoBuildingBID,
		name:   "Block B",
		floors: 2,
		units: []demoUnit{
			{name: "B-101", bedrooms: 2, floor: 1},
		},
	},
}

// DemoChildCode renders the n-th (1-based) child code under parent.
func DemoChildCode(parent string, n int) string {
	return fmt.Sprintf("%s%0*d", parent, utils.ChildSequenceWidth, n)
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', utils.CoordinatePrecision, 64)
}

// SeedDemoEstate creates one Location with a Land, two Buildings, their
// Units and a rentable Product wrapping the Land. Everything is written in a
// single transaction and the call is a no-op once the demo Land exists.
func SeedDemoEstate(ctx context.Context, txr repositories.TxRunner) error {
	landID := uuid.MustParse(DemoLandID)

	seeded := false
	err := txr.InTx(ctx, func(tx repositories.Tx) error {
		if existing, err := tx.Lands().GetByID(ctx, landID); err != nil {
			return fmt.Errorf("check existing demo land: %w", err)
		} else if existing != nil {
			return nil
		}

		loc, err := demoLocation(ctx, tx)
		if err != nil {
			return err
		}

		land := &models.Land{
			ID:          landID,
			CustomID:    DemoLandCode,
			LocationID:  loc.ID,
			Name:        "Plotline Demo Estate",
			Size:        4200,
			Description: "Gated estate on the slopes above Arusha",
			Features:    []string{"borehole", "perimeter wall"},
			Zoning:      utils.Ptr("residential"),
			Topography:  utils.Ptr("gentle slope"),
			Registered:  true,
		}
		if err := tx.Lands().Create(ctx, land); err != nil {
			return fmt.Errorf("insert demo land: %w", err)
		}

		for i, db := range demoBuildings {
			b := &models.Building{
				ID:             uuid.MustParse(db.id),
				CustomID:       DemoChildCode(DemoLandCode, i+1),
				LandID:         land.ID,
				Name:           db.name,
				NumberOfFloors: db.floors,
				Type:           utils.Ptr("apartment"),
				Description:    db.name + " of the demo estate",
				Features:       []string{},
				Amenities:      []string{"parking"},
			}
			if err := tx.Buildings().Create(ctx, b); err != nil {
				return fmt.Errorf("insert demo building %s: %w", db.name, err)
			}
			for j, du := range db.units {
				u := &models.Unit{
					ID:         uuid.New(),
					CustomID:   DemoChildCode(b.CustomID, j+1),
					BuildingID: b.ID,
					Name:       du.name,
					Bedrooms:   utils.Ptr(du.bedrooms),
					FloorLevel: du.floor,
					Amenities:  []string{},
					Features:   []string{},
				}
				if err := tx.Units().Create(ctx, u); err != nil {
					return fmt.Errorf("insert demo unit %s: %w", du.name, err)
				}
			}
		}

		if err := demoProduct(ctx, tx, land); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			// Another instance seeded concurrently and won.
			utils.Logger.WithError(err).Info("seeding: demo estate already present; skipping")
			return nil
		}
		return err
	}

	if seeded {
		utils.Logger.Infof("seeding: created demo estate land=%s", DemoLandCode)
	} else {
		utils.Logger.Info("seeding: demo estate already present; skipping")
	}
	return nil
}

func demoLocation(ctx context.Context, tx repositories.Tx) (*models.Location, error) {
	lat, lng := formatCoordinate(demoLatitude), formatCoordinate(demoLongitude)
	loc, err := tx.Locations().FindByNaturalKey(ctx, demoCountry, lat, lng)
	if err != nil {
		return nil, fmt.Errorf("look up demo location: %w", err)
	}
	if loc != nil {
		return loc, nil
	}

	tz := latlong.LookupZoneName(demoLatitude, demoLongitude)
	if tz == "" {
		tz = "UTC"
	}
	loc = &models.Location{
		ID:          uuid.New(),
		Country:     demoCountry,
		StateRegion: utils.Ptr("Arusha"),
		Latitude:    lat,
		Longitude:   lng,
		Geohash:     geohash.EncodeWithPrecision(demoLatitude, demoLongitude, utils.GeohashPrecision),
		TimeZone:    tz,
	}
	if err := tx.Locations().Create(ctx, loc); err != nil {
		return nil, fmt.Errorf("insert demo location: %w", err)
	}
	return loc, nil
}

func demoProduct(ctx context.Context, tx repositories.Tx, land *models.Land) error {
	lease := &models.Lease{
		ID:           uuid.New(),
		Price:        850,
		RentalPeriod: utils.Ptr(models.RentalPeriodMonthly),
		Status:       utils.Ptr("available"),
	}
	if err := tx.Leases().Create(ctx, lease); err != nil {
		return fmt.Errorf("insert demo lease: %w", err)
	}

	media := &models.Media{
		ID:         uuid.New(),
		ImageURL:   utils.Ptr("https://example.com/demo-estate.jpg"),
		ImageTitle: utils.Ptr("Demo estate"),
	}
	if err := tx.Media().Create(ctx, media); err != nil {
		return fmt.Errorf("insert demo media: %w", err)
	}

	product := &models.Product{
		ID:       uuid.MustParse(DemoProductID),
		CustomID: land.CustomID,
		Status:   models.ProductStatusForRent,
		Category: models.ProductCategoryPlot,
		Active:   true,
		LandID:   land.ID,
		LeaseID:  &lease.ID,
		MediaID:  &media.ID,
	}
	if err := tx.Products().Create(ctx, product); err != nil {
		return fmt.Errorf("insert demo product: %w", err)
	}
	if err := tx.Leases().SetProductID(ctx, lease.ID, product.ID); err != nil {
		return fmt.Errorf("link demo lease: %w", err)
	}
	return nil
}
