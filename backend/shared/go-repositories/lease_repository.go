package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/plotline/mono-repo/backend/shared/go-models"
)

type LeaseRepository interface {
	Create(ctx context.Context, l *models.Lease) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lease, error)

	// SetProductID back-links a lease to the product that owns it.
	SetProductID(ctx context.Context, leaseID, productID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type leaseRepo struct {
	db DB
}

func NewLeaseRepository(db DB) LeaseRepository {
	return &leaseRepo{db: db}
}

func (r *leaseRepo) Create(ctx context.Context, l *models.Lease) error {
	var period *string
	if l.RentalPeriod != nil {
		s := string(*l.RentalPeriod)
		period = &s
	}
	return r.db.QueryRow(ctx, `
        INSERT INTO leases (
            id, product_id, price, rental_period, discount_price,
            discount_duration, status, terms_and_conditions,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW(), NOW())
        RETURNING created_at, updated_at
    `,
		l.ID,
		l.ProductID,
		l.Price,
		period,
		l.DiscountPrice,
		l.DiscountDuration,
		l.Status,
		l.TermsAndConditions,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
}

func (r *leaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Lease, error) {
	var (
		l      models.Lease
		period *string
	)
	err := r.db.QueryRow(ctx, `
        SELECT
            id, product_id, price, rental_period, discount_price,
            discount_duration, status, terms_and_conditions,
            created_at, updated_at
        FROM leases
        WHERE id=$1
    `, id).Scan(
		&l.ID,
		&l.ProductID,
		&l.Price,
		&period,
		&l.DiscountPrice,
		&l.DiscountDuration,
		&l.Status,
		&l.TermsAndConditions,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if period != nil {
		rp := models.RentalPeriod(*period)
		l.RentalPeriod = &rp
	}
	return &l, nil
}

func (r *leaseRepo) SetProductID(ctx context.Context, leaseID, productID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE leases SET product_id=$1, updated_at=NOW() WHERE id=$2`,
		productID, leaseID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *leaseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM leases WHERE id=$1`, id)
	return err
}
