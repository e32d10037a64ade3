package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/plotline/mono-repo/backend/shared/go-models"
)

type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByCustomID(ctx context.Context, customID string) (*models.Product, error)

	// ListByLandID includes products of every building on the land.
	ListByLandID(ctx context.Context, landID uuid.UUID) ([]*models.Product, error)
	ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.Product, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepo struct {
	db DB
}

func NewProductRepository(db DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	return r.db.QueryRow(ctx, `
        INSERT INTO products (
            id, custom_id, status, category, active,
            land_id, building_id, media_id, lease_id,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, NOW(), NOW())
        RETURNING created_at, updated_at
    `,
		p.ID,
		p.CustomID,
		string(p.Status),
		string(p.Category),
		p.Active,
		p.LandID,
		p.BuildingID,
		p.MediaID,
		p.LeaseID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return scanProduct(r.db.QueryRow(ctx, baseSelectProduct()+" WHERE id=$1", id))
}

func (r *productRepo) GetByCustomID(ctx context.Context, customID string) (*models.Product, error) {
	return scanProduct(r.db.QueryRow(ctx, baseSelectProduct()+" WHERE custom_id=$1", customID))
}

func (r *productRepo) ListByLandID(ctx context.Context, landID uuid.UUID) ([]*models.Product, error) {
	rows, err := r.db.Query(ctx, baseSelectProduct()+" WHERE land_id=$1 ORDER BY custom_id", landID)
	if err != nil {
		return nil, err
	}
	return collectRows(rows, scanProduct)
}

func (r *productRepo) ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.Product, error) {
	rows, err := r.db.Query(ctx, baseSelectProduct()+" WHERE building_id=$1 ORDER BY custom_id", buildingID)
	if err != nil {
		return nil, err
	}
	return collectRows(rows, scanProduct)
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	return err
}

func baseSelectProduct() string {
	return `
        SELECT
            id, custom_id, status, category, active,
            land_id, building_id, media_id, lease_id,
            created_at, updated_at
        FROM products
    `
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var (
		p        models.Product
		status   string
		category string
	)
	err := row.Scan(
		&p.ID,
		&p.CustomID,
		&status,
		&category,
		&p.Active,
		&p.LandID,
		&p.BuildingID,
		&p.MediaID,
		&p.LeaseID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	p.Status = models.ProductStatus(status)
	p.Category = models.ProductCategory(category)
	return &p, nil
}
