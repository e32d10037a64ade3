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

type UnitRepository interface {
	Create(ctx context.Context, u *models.Unit) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	GetByCustomID(ctx context.Context, customID string) (*models.Unit, error)
	FindByNaturalKey(ctx context.Context, name string, buildingID uuid.UUID) (*models.Unit, error)
	ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.Unit, error)
	MaxCustomIDWithPrefix(ctx context.Context, prefix string) (string, error)

	UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByBuildingID(ctx context.Context, buildingID uuid.UUID) (int64, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type unitRepo struct {
	*versionedRepo[*models.Unit]
	db DB
}

func NewUnitRepository(db DB) UnitRepository {
	r := &unitRepo{db: db}
	selectStmt := baseSelectUnit() + " WHERE id=$1"
	r.versionedRepo = newVersionedRepo(db, selectStmt, scanUnit)
	return r
}

func (r *unitRepo) Create(ctx context.Context, u *models.Unit) error {
	return r.db.QueryRow(ctx, `
        INSERT INTO units (
            id, custom_id, building_id, name, bedrooms, bathrooms, floor_level,
            size, description, amenities, features, utilities, unit_type,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13, NOW(), NOW(), 1)
        RETURNING created_at, updated_at, row_version
    `,
		u.ID,
		u.CustomID,
		u.BuildingID,
		u.Name,
		u.Bedrooms,
		u.Bathrooms,
		u.FloorLevel,
		u.Size,
		u.Description,
		textArray(u.Amenities),
		textArray(u.Features),
		u.Utilities,
		u.UnitType,
	).Scan(&u.CreatedAt, &u.UpdatedAt, &u.RowVersion)
}

func (r *unitRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	return r.getByID(ctx, id)
}

func (r *unitRepo) GetByCustomID(ctx context.Context, customID string) (*models.Unit, error) {
	row := r.db.QueryRow(ctx, baseSelectUnit()+" WHERE custom_id=$1", customID)
	return scanUnit(row)
}

func (r *unitRepo) FindByNaturalKey(ctx context.Context, name string, buildingID uuid.UUID) (*models.Unit, error) {
	row := r.db.QueryRow(ctx, baseSelectUnit()+" WHERE name=$1 AND building_id=$2", name, buildingID)
	return scanUnit(row)
}

func (r *unitRepo) ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.Unit, error) {
	rows, err := r.db.Query(ctx, baseSelectUnit()+" WHERE building_id=$1 ORDER BY custom_id", buildingID)
	if err != nil {
		return nil, err
	}
	return collectRows(rows, scanUnit)
}

func (r *unitRepo) MaxCustomIDWithPrefix(ctx context.Context, prefix string) (string, error) {
	return maxChildCode(ctx, r.db, "units", prefix, 3)
}

func (r *unitRepo) UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE units SET
            name=$1, bedrooms=$2, bathrooms=$3, floor_level=$4, size=$5,
            description=$6, amenities=$7, features=$8, utilities=$9, unit_type=$10,
            updated_at=NOW(),
            row_version=row_version+1
        WHERE id=$11 AND row_version=$12
    `,
		u.Name, u.Bedrooms, u.Bathrooms, u.FloorLevel, u.Size,
		u.Description, textArray(u.Amenities), textArray(u.Features), u.Utilities, u.UnitType,
		u.ID, expected,
	)
}

func (r *unitRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error {
	return r.updateWithRetry(ctx, id, mutate, r.UpdateIfVersion)
}

func (r *unitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM units WHERE id=$1`, id)
	return err
}

func (r *unitRepo) DeleteByBuildingID(ctx context.Context, buildingID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM units WHERE building_id=$1`, buildingID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func baseSelectUnit() string {
	return `
        SELECT
            id, custom_id, building_id, name, bedrooms, bathrooms, floor_level,
            size, description, amenities, features, utilities, unit_type,
            created_at, updated_at, row_version
        FROM units
    `
}

func scanUnit(row pgx.Row) (*models.Unit, error) {
	var u models.Unit
	err := row.Scan(
		&u.ID,
		&u.CustomID,
		&u.BuildingID,
		&u.Name,
		&u.Bedrooms,
		&u.Bathrooms,
		&u.FloorLevel,
		&u.Size,
		&u.Description,
		&u.Amenities,
		&u.Features,
		&u.Utilities,
		&u.UnitType,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
