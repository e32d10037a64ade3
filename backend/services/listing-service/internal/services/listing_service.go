package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/dtos"
	"github.com/plotline/mono-repo/backend/shared/go-models"
	"github.com/plotline/mono-repo/backend/shared/go-repositories"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
)

/*
ListingService is the entry point for callers. Every method runs in exactly
one transaction: a resolve that creates a Location, Land, Building and Unit
either commits all four or none.
*/
type ListingService struct {
	txr       repositories.TxRunner
	locations *LocationResolver
	lands     *LandResolver
	buildings *BuildingResolver
	units     *UnitResolver
	products  *ProductAssembler
	children  *ChildCodeAllocator
	patcher   *Patcher
	cascader  *Cascader
}

func NewListingService(txr repositories.TxRunner) *ListingService {
	return NewListingServiceWithCodes(txr, nil)
}

// NewListingServiceWithCodes lets callers control how Land codes are drawn.
func NewListingServiceWithCodes(txr repositories.TxRunner, gen CodeGenerator) *ListingService {
	sanitizer := NewSanitizer()
	children := NewChildCodeAllocator()
	locations := NewLocationResolver(sanitizer)
	lands := NewLandResolver(sanitizer, locations, NewRootCodeAllocator(gen))
	buildings := NewBuildingResolver(sanitizer, lands, children)
	return &ListingService{
		txr:       txr,
		locations: locations,
		lands:     lands,
		buildings: buildings,
		units:     NewUnitResolver(sanitizer, buildings, children),
		products:  NewProductAssembler(sanitizer, lands, buildings),
		children:  children,
		patcher:   NewPatcher(sanitizer),
		cascader:  NewCascader(),
	}
}

func (s *ListingService) run(ctx context.Context, op string, fn func(repositories.Tx) error) error {
	err := asAppError(op, s.txr.InTx(ctx, fn))
	if err == nil {
		return nil
	}
	entry := utils.Logger.WithField("op", op).WithError(err)
	var appErr *utils.AppError
	if errors.As(err, &appErr) && appErr.StatusCode < http.StatusInternalServerError {
		entry.Debug("Listing operation rejected")
	} else {
		entry.Error("Listing operation failed")
	}
	return err
}

/* ------------------------------------------------------------------
   Resolution
------------------------------------------------------------------ */

func (s *ListingService) ResolveLocation(ctx context.Context, p dtos.LocationPayload) (*dtos.ResolveLocationResponse, error) {
	var out dtos.ResolveLocationResponse
	err := s.run(ctx, "resolve_location", func(tx repositories.Tx) error {
		res, err := s.locations.Resolve(ctx, tx, &p)
		if err != nil {
			return err
		}
		out.Location = res.entity()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ListingService) ResolveLand(ctx context.Context, p dtos.LandPayload) (*dtos.ResolveLandResponse, error) {
	var out dtos.ResolveLandResponse
	err := s.run(ctx, "resolve_land", func(tx repositories.Tx) error {
		res, err := s.lands.Resolve(ctx, tx, &p)
		if err != nil {
			return err
		}
		out.Land = res.entity()
		out.Location = res.Location.entity()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ListingService) ResolveBuilding(ctx context.Context, p dtos.BuildingPayload) (*dtos.ResolveBuildingResponse, error) {
	var out dtos.ResolveBuildingResponse
	err := s.run(ctx, "resolve_building", func(tx repositories.Tx) error {
		res, err := s.buildings.Resolve(ctx, tx, &p)
		if err != nil {
			return err
		}
		out.Building = res.entity()
		out.Land = res.Land.entity()
		out.Location = res.Land.Location.entity()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ListingService) ResolveUnit(ctx context.Context, p dtos.UnitPayload) (*dtos.ResolveUnitResponse, error) {
	var out dtos.ResolveUnitResponse
	err := s.run(ctx, "resolve_unit", func(tx repositories.Tx) error {
		res, err := s.units.Resolve(ctx, tx, &p)
		if err != nil {
			return err
		}
		out.Unit = res.entity()
		out.Building = res.Building.entity()
		out.Land = res.Building.Land.entity()
		out.Location = res.Building.Land.Location.entity()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ListingService) AssembleProduct(ctx context.Context, p dtos.ProductPayload) (*dtos.AssembleProductResponse, error) {
	var out dtos.AssembleProductResponse
	err := s.run(ctx, "assemble_product", func(tx repositories.Tx) error {
		res, err := s.products.Assemble(ctx, tx, &p)
		if err != nil {
			return err
		}
		out.Product = *res.Product
		out.LeaseID = res.Product.LeaseID
		out.MediaID = res.Product.MediaID
		out.Land = res.Land.entity()
		if res.Building != nil {
			b := res.Building.entity()
			out.Building = &b
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AllocateChildCode previews the next code under parentCode. The code is not
// reserved; creating the child allocates again under the parent lock.
func (s *ListingService) AllocateChildCode(ctx context.Context, parentCode string, kind ChildKind) (string, error) {
	var code string
	err := s.run(ctx, "allocate_child_code", func(tx repositories.Tx) error {
		switch kind {
		case ChildKindBuilding:
			land, err := tx.Lands().GetByCustomID(ctx, parentCode)
			if err != nil {
				return err
			}
			if land == nil {
				return notFound(utils.ErrLandNotFound, "parent land not found")
			}
		case ChildKindUnit:
			b, err := tx.Buildings().GetByCustomID(ctx, parentCode)
			if err != nil {
				return err
			}
			if b == nil {
				return notFound(utils.ErrBuildingNotFound, "parent building not found")
			}
		}
		c, err := s.children.Allocate(ctx, tx, parentCode, kind)
		if err != nil {
			return err
		}
		code = c
		return nil
	})
	return code, err
}

/* ------------------------------------------------------------------
   Updates
------------------------------------------------------------------ */

func (s *ListingService) UpdateLocation(ctx context.Context, id uuid.UUID, patch dtos.LocationPatch) (*models.Location, error) {
	var out *models.Location
	err := s.run(ctx, "update_location", func(tx repositories.Tx) error {
		loc, err := s.patcher.PatchLocation(ctx, tx, id, patch)
		out = loc
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ListingService) UpdateLand(ctx context.Context, ref models.EntityRef, patch dtos.LandPatch) (*models.Land, error) {
	var out *models.Land
	err := s.run(ctx, "update_land", func(tx repositories.Tx) error {
		cur, err := s.lands.Lookup(ctx, tx, ref)
		if err != nil {
			return err
		}
		out, err = s.patcher.PatchLand(ctx, tx, cur.Land.ID, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ListingService) UpdateBuilding(ctx context.Context, ref models.EntityRef, patch dtos.BuildingPatch) (*models.Building, error) {
	var out *models.Building
	err := s.run(ctx, "update_building", func(tx repositories.Tx) error {
		cur, err := s.buildings.Lookup(ctx, tx, ref)
		if err != nil {
			return err
		}
		out, err = s.patcher.PatchBuilding(ctx, tx, cur.Building.ID, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ListingService) UpdateUnit(ctx context.Context, ref models.EntityRef, patch dtos.UnitPatch) (*models.Unit, error) {
	var out *models.Unit
	err := s.run(ctx, "update_unit", func(tx repositories.Tx) error {
		cur, err := s.units.Lookup(ctx, tx, ref)
		if err != nil {
			return err
		}
		out, err = s.patcher.PatchUnit(ctx, tx, cur.Unit.ID, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

/* ------------------------------------------------------------------
   Deletes
------------------------------------------------------------------ */

func (s *ListingService) DeleteUnit(ctx context.Context, ref models.EntityRef) (*dtos.DeleteSummary, error) {
	var sum dtos.DeleteSummary
	err := s.run(ctx, "delete_unit", func(tx repositories.Tx) error {
		cur, err := s.units.Lookup(ctx, tx, ref)
		if err != nil {
			return err
		}
		return s.cascader.DeleteUnit(ctx, tx, cur.Unit, &sum)
	})
	if err != nil {
		return nil, err
	}
	s.logDeleted("unit", ref, sum)
	return &sum, nil
}

func (s *ListingService) DeleteBuilding(ctx context.Context, ref models.EntityRef) (*dtos.DeleteSummary, error) {
	var sum dtos.DeleteSummary
	err := s.run(ctx, "delete_building", func(tx repositories.Tx) error {
		cur, err := s.buildings.Lookup(ctx, tx, ref)
		if err != nil {
			return err
		}
		return s.cascader.DeleteBuilding(ctx, tx, cur.Building, &sum)
	})
	if err != nil {
		return nil, err
	}
	s.logDeleted("building", ref, sum)
	return &sum, nil
}

func (s *ListingService) DeleteLand(ctx context.Context, ref models.EntityRef) (*dtos.DeleteSummary, error) {
	var sum dtos.DeleteSummary
	err := s.run(ctx, "delete_land", func(tx repositories.Tx) error {
		cur, err := s.lands.Lookup(ctx, tx, ref)
		if err != nil {
			return err
		}
		return s.cascader.DeleteLand(ctx, tx, cur.Land, &sum)
	})
	if err != nil {
		return nil, err
	}
	s.logDeleted("land", ref, sum)
	return &sum, nil
}

func (s *ListingService) DeleteProduct(ctx context.Context, ref models.EntityRef) (*dtos.DeleteSummary, error) {
	var sum dtos.DeleteSummary
	err := s.run(ctx, "delete_product", func(tx repositories.Tx) error {
		p, err := lookupProduct(ctx, tx, ref)
		if err != nil {
			return err
		}
		return s.cascader.DeleteProduct(ctx, tx, p, &sum)
	})
	if err != nil {
		return nil, err
	}
	s.logDeleted("product", ref, sum)
	return &sum, nil
}

// DeleteLocation removes a Location no Land references. Lands go through
// DeleteLand, which reclaims their Location once it is orphaned.
func (s *ListingService) DeleteLocation(ctx context.Context, id uuid.UUID) (*dtos.DeleteSummary, error) {
	var sum dtos.DeleteSummary
	err := s.run(ctx, "delete_location", func(tx repositories.Tx) error {
		loc, err := tx.Locations().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if loc == nil {
			return notFound(utils.ErrLocationNotFound, "location not found")
		}
		return s.cascader.DeleteLocation(ctx, tx, loc, &sum)
	})
	if err != nil {
		return nil, err
	}
	s.logDeleted("location", models.BySystemID(id), sum)
	return &sum, nil
}

func (s *ListingService) logDeleted(kind string, ref models.EntityRef, sum dtos.DeleteSummary) {
	utils.Logger.WithFields(logrus.Fields{
		"kind":      kind,
		"ref":       ref.String(),
		"products":  sum.Products,
		"units":     sum.Units,
		"buildings": sum.Buildings,
		"lands":     sum.Lands,
		"locations": sum.Locations,
	}).Info("Cascade delete committed")
}

/* ------------------------------------------------------------------
   Reads
------------------------------------------------------------------ */

func (s *ListingService) GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	var out *models.Location
	err := s.run(ctx, "get_location", func(tx repositories.Tx) error {
		loc, err := tx.Locations().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if loc == nil {
			return notFound(utils.ErrLocationNotFound, "location not found")
		}
		out = loc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ListingService) GetLand(ctx context.Context, ref models.EntityRef) (*dtos.LandResponse, error) {
	var out dtos.LandResponse
	err := s.run(ctx, "get_land", func(tx repositories.Tx) error {
		res, err := s.lands.Lookup(ctx, tx, ref)
		if err != nil {
			return err
		}
		out.Land = *res.Land
		out.Location = *res.Location.Location
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ListingService) GetBuilding(ctx context.Context, ref models.EntityRef) (*dtos.BuildingResponse, error) {
	var out dtos.BuildingResponse
	err := s.run(ctx, "get_building", func(tx repositories.Tx) error {
		res, err := s.buildings.Lookup(ctx, tx, ref)
		if err != nil {
			return err
		}
		out.Building = *res.Building
		out.Land = *res.Land.Land
		out.Location = *res.Land.Location.Location
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ListingService) GetUnit(ctx context.Context, ref models.EntityRef) (*dtos.UnitResponse, error) {
	var out dtos.UnitResponse
	err := s.run(ctx, "get_unit", func(tx repositories.Tx) error {
		res, err := s.units.Lookup(ctx, tx, ref)
		if err != nil {
			return err
		}
		out.Unit = *res.Unit
		out.Building = *res.Building.Building
		out.Land = *res.Building.Land.Land
		out.Location = *res.Building.Land.Location.Location
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ListingService) GetProduct(ctx context.Context, ref models.EntityRef) (*dtos.ProductResponse, error) {
	var out dtos.ProductResponse
	err := s.run(ctx, "get_product", func(tx repositories.Tx) error {
		p, err := lookupProduct(ctx, tx, ref)
		if err != nil {
			return err
		}
		out.Product = *p

		land, err := tx.Lands().GetByID(ctx, p.LandID)
		if err != nil {
			return err
		}
		if land == nil {
			return notFound(utils.ErrLandNotFound, "land of product not found")
		}
		out.Land = *land

		if p.BuildingID != nil {
			if out.Building, err = tx.Buildings().GetByID(ctx, *p.BuildingID); err != nil {
				return err
			}
		}
		if p.LeaseID != nil {
			if out.Lease, err = tx.Leases().GetByID(ctx, *p.LeaseID); err != nil {
				return err
			}
		}
		if p.MediaID != nil {
			if out.Media, err = tx.Media().GetByID(ctx, *p.MediaID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func lookupProduct(ctx context.Context, tx repositories.Tx, ref models.EntityRef) (*models.Product, error) {
	var (
		p   *models.Product
		err error
	)
	switch ref.Kind() {
	case models.RefBySystemID:
		p, err = tx.Products().GetByID(ctx, ref.SystemID())
	case models.RefByCustomID:
		p, err = tx.Products().GetByCustomID(ctx, ref.CustomID())
	default:
		return nil, missingField("product reference")
	}
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound(utils.ErrProductNotFound, "product not found")
	}
	return p, nil
}
