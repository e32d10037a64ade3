package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/dtos"
	"github.com/plotline/mono-repo/backend/shared/go-models"
	"github.com/plotline/mono-repo/backend/shared/go-repositories"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
)

type ProductResult struct {
	Product  *models.Product
	Lease    *models.Lease
	Media    *models.Media
	Land     LandResult
	Building *BuildingResult
}

type ProductAssembler struct {
	sanitizer *Sanitizer
	lands     *LandResolver
	buildings *BuildingResolver
}

func NewProductAssembler(
	sanitizer *Sanitizer,
	lands *LandResolver,
	buildings *BuildingResolver,
) *ProductAssembler {
	return &ProductAssembler{sanitizer: sanitizer, lands: lands, buildings: buildings}
}

/*
Assemble wraps a Land (or a Building) into a new Product, minting a fresh
Lease and Media when the payload carries them. The Product reuses the code
of its parcel, so a parcel holds at most one Product; asking for a second
one is a Conflict, never a reuse.
*/
func (a *ProductAssembler) Assemble(ctx context.Context, tx repositories.Tx, p *dtos.ProductPayload) (ProductResult, error) {
	if p == nil {
		return ProductResult{}, missingField("product")
	}
	if err := validate.Struct(p); err != nil {
		return ProductResult{}, structValidationError("product", err)
	}
	var leasePrice float64
	if p.Lease != nil {
		price, err := a.sanitizer.RequireFloat("lease.price", p.Lease.Price)
		if err != nil {
			return ProductResult{}, err
		}
		leasePrice = price
	}

	res := ProductResult{}
	var code string
	if p.Building != nil {
		b, err := a.buildings.Resolve(ctx, tx, p.Building)
		if err != nil {
			return ProductResult{}, err
		}
		locked, err := tx.Buildings().LockByID(ctx, b.Building.ID)
		if err != nil {
			return ProductResult{}, err
		}
		if locked == nil {
			return ProductResult{}, notFound(utils.ErrBuildingNotFound, "building not found")
		}
		res.Building = &b
		res.Land = b.Land
		code = b.Building.CustomID
	} else {
		l, err := a.lands.Resolve(ctx, tx, p.Land)
		if err != nil {
			return ProductResult{}, err
		}
		locked, err := tx.Lands().LockByID(ctx, l.Land.ID)
		if err != nil {
			return ProductResult{}, err
		}
		if locked == nil {
			return ProductResult{}, notFound(utils.ErrLandNotFound, "land not found")
		}
		res.Land = l
		code = l.Land.CustomID
	}

	// Checked before any Lease or Media row is minted.
	existing, err := tx.Products().GetByCustomID(ctx, code)
	if err != nil {
		return ProductResult{}, err
	}
	if existing != nil {
		return ProductResult{}, a.existsError(res)
	}

	if p.Lease != nil {
		res.Lease = &models.Lease{
			ID:                 uuid.New(),
			Price:              leasePrice,
			DiscountPrice:      a.sanitizer.Float(p.Lease.DiscountPrice),
			DiscountDuration:   a.sanitizer.Text(p.Lease.DiscountDuration),
			Status:             a.sanitizer.Text(p.Lease.Status),
			TermsAndConditions: a.sanitizer.Text(p.Lease.TermsAndConditions),
		}
		if p.Lease.RentalPeriod != nil {
			rp := models.RentalPeriod(*p.Lease.RentalPeriod)
			res.Lease.RentalPeriod = &rp
		}
		if err := tx.Leases().Create(ctx, res.Lease); err != nil {
			return ProductResult{}, err
		}
	}

	if p.Media != nil {
		m := p.Media
		res.Media = &models.Media{
			ID:                     uuid.New(),
			ImageURL:               a.sanitizer.Text(m.ImageURL),
			ImageTitle:             a.sanitizer.Text(m.ImageTitle),
			ImageDescription:       a.sanitizer.Text(m.ImageDescription),
			VideoURL:               a.sanitizer.Text(m.VideoURL),
			VideoTitle:             a.sanitizer.Text(m.VideoTitle),
			VideoDescription:       a.sanitizer.Text(m.VideoDescription),
			VirtualTourURL:         a.sanitizer.Text(m.VirtualTourURL),
			VirtualTourTitle:       a.sanitizer.Text(m.VirtualTourTitle),
			VirtualTourDescription: a.sanitizer.Text(m.VirtualTourDescription),
		}
		if err := tx.Media().Create(ctx, res.Media); err != nil {
			return ProductResult{}, err
		}
	}

	product := &models.Product{
		ID:       uuid.New(),
		CustomID: code,
		Status:   models.ProductStatus(p.Status),
		Category: models.ProductCategory(p.Category),
		Active:   p.Active == nil || *p.Active,
		LandID:   res.Land.Land.ID,
	}
	if res.Building != nil {
		product.BuildingID = &res.Building.Building.ID
	}
	if res.Lease != nil {
		product.LeaseID = &res.Lease.ID
	}
	if res.Media != nil {
		product.MediaID = &res.Media.ID
	}

	err = tx.Savepoint(ctx, func(sp repositories.Tx) error {
		return sp.Products().Create(ctx, product)
	})
	if err != nil {
		if repositories.ViolatedConstraint(err) == repositories.ConstraintProductCustomID {
			return ProductResult{}, a.existsError(res)
		}
		return ProductResult{}, err
	}
	res.Product = product

	if res.Lease != nil {
		if err := tx.Leases().SetProductID(ctx, res.Lease.ID, product.ID); err != nil {
			return ProductResult{}, err
		}
		res.Lease.ProductID = &product.ID
	}

	utils.Logger.WithFields(logrus.Fields{
		"productID": product.ID,
		"customID":  product.CustomID,
		"withLease": res.Lease != nil,
		"withMedia": res.Media != nil,
	}).Info("Assembled product")
	return res, nil
}

func (a *ProductAssembler) existsError(res ProductResult) error {
	if res.Building != nil {
		return conflict(utils.ErrProductExists, "product already exists for this building")
	}
	return conflict(utils.ErrProductExists, "product already exists for this land")
}
