package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/plotline/mono-repo/backend/shared/go-models"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type LandRepository interface {
	Create(ctx context.Context, l *models.Land) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Land, error)
	GetByCustomID(ctx context.Context, customID string) (*models.Land, error)
	FindByNaturalKey(ctx context.Context, name string, locationID uuid.UUID) (*models.Land, error)
	CustomIDExists(ctx context.Context, customID string) (bool, error)
	CountByLocationID(ctx context.Context, locationID uuid.UUID) (int, error)

	// LockByID reads the row with FOR UPDATE. Must run inside a transaction.
	LockByID(ctx context.Context, id uuid.UUID) (*models.Land, error)

	UpdateIfVersion(ctx context.Context, l *models.Land, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Land) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type landRepo struct {
	*versionedRepo[*models.Land]
	db DB
}

func NewLandRepository(db DB) LandRepository {
	r := &landRepo{db: db}
	selectStmt := baseSelectLand() + " WHERE id=$1"
	r.versionedRepo = newVersionedRepo(db, selectStmt, scanLand)
	return r
}

func (r *landRepo) Create(ctx context.Context, l *models.Land) error {
	return r.db.QueryRow(ctx, `
        INSERT INTO lands (
            id, custom_id, location_id, name, size, description, features,
            zoning, soil_structure, topography, postal_zip_code,
            registered, registration_date, accessibility,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14, NOW(), NOW(), 1)
        RETURNING created_at, updated_at, row_version
    `,
		l.ID,
		l.CustomID,
		l.LocationID,
		l.Name,
		l.Size,
		l.Description,
		textArray(l.Features),
		l.Zoning,
		l.SoilStructure,
		l.Topography,
		l.PostalZipCode,
		l.Registered,
		l.RegistrationDate,
		l.Accessibility,
	).Scan(&l.CreatedAt, &l.UpdatedAt, &l.RowVersion)
}

func (r *landRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Land, error) {
	return r.getByID(ctx, id)
}

func (r *landRepo) GetByCustomID(ctx context.Context, customID string) (*models.Land, error) {
	row := r.db.QueryRow(ctx, baseSelectLand()+" WHERE custom_id=$1", customID)
	return scanLand(row)
}

func (r *landRepo) FindByNaturalKey(ctx context.Context, name string, locationID uuid.UUID) (*models.Land, error) {
	row := r.db.QueryRow(ctx, baseSelectLand()+" WHERE name=$1 AND location_id=$2", name, locationID)
	return scanLand(row)
}

func (r *landRepo) CustomIDExists(ctx context.Context, customID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM lands WHERE custom_id=$1)`, customID,
	).Scan(&exists)
	return exists, err
}

func (r *landRepo) CountByLocationID(ctx context.Context, locationID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM lands WHERE location_id=$1`, locationID,
	).Scan(&n)
	return n, err
}

func (r *landRepo) LockByID(ctx context.Context, id uuid.UUID) (*models.Land, error) {
	row := r.db.QueryRow(ctx, baseSelectLand()+" WHERE id=$1 FOR UPDATE", id)
	return scanLand(row)
}

func (r *landRepo) UpdateIfVersion(ctx context.Context, l *models.Land, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE lands SET
            name=$1, size=$2, description=$3, features=$4,
            zoning=$5, soil_structure=$6, topography=$7, postal_zip_code=$8,
            registered=$9, registration_date=$10, accessibility=$11,
            location_id=$12, updated_at=NOW(),
            row_version=row_version+1
        WHERE id=$13 AND row_version=$14
    `,
		l.Name, l.Size, l.Description, textArray(l.Features),
		l.Zoning, l.SoilStructure, l.Topography, l.PostalZipCode,
		l.Registered, l.RegistrationDate, l.Accessibility,
		l.LocationID,
		l.ID, expected,
	)
}

func (r *landRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Land) error) error {
	return r.updateWithRetry(ctx, id, mutate, r.UpdateIfVersion)
}

func (r *landRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM lands WHERE id=$1`, id)
	return err
}

func baseSelectLand() string {
	return `
        SELECT
            id, custom_id, location_id, name, size, description, features,
            zoning, soil_structure, topography, postal_zip_code,
            registered, registration_date, accessibility,
            created_at, updated_at, row_version
        FROM lands
    `
}

func scanLand(row pgx.Row) (*models.Land, error) {
	var l models.Land
	err := row.Scan(
		&l.ID,
		&l.CustomID,
		&l.LocationID,
		&l.Name,
		&l.Size,
		&l.Description,
		&l.Features,
		&l.Zoning,
		&l.SoilStructure,
		&l.Topography,
		&l.PostalZipCode,
		&l.Registered,
		&l.RegistrationDate,
		&l.Accessibility,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}
