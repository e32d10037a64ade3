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

type BuildingRepository interface {
	Create(ctx context.Context, b *models.Building) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error)
	GetByCustomID(ctx context.Context, customID string) (*models.Building, error)
	FindByNaturalKey(ctx context.Context, name string, landID uuid.UUID) (*models.Building, error)
	ListByLandID(ctx context.Context, landID uuid.UUID) ([]*models.Building, error)

	// MaxCustomIDWithPrefix returns the greatest code that is prefix plus
	// three characters, or "" when there is none.
	MaxCustomIDWithPrefix(ctx context.Context, prefix string) (string, error)

	// LockByID reads the row with FOR UPDATE. Must run inside a transaction.
	LockByID(ctx context.Context, id uuid.UUID) (*models.Building, error)

	UpdateIfVersion(ctx context.Context, b *models.Building, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Building) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type buildingRepo struct {
	*versionedRepo[*models.Building]
	db DB
}

func NewBuildingRepository(db DB) BuildingRepository {
	r := &buildingRepo{db: db}
	selectStmt := baseSelectBuilding() + " WHERE id=$1"
	r.versionedRepo = newVersionedRepo(db, selectStmt, scanBuilding)
	return r
}

func (r *buildingRepo) Create(ctx context.Context, b *models.Building) error {
	return r.db.QueryRow(ctx, `
        INSERT INTO buildings (
            id, custom_id, land_id, name, number_of_floors, year_built, type,
            size, description, features, amenities,
            total_bedrooms, total_bathrooms, parking_spaces, utilities,
            maintenance_cost, management_company, construction_material,
            architect, uses, year_upgraded,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,
                  NOW(), NOW(), 1)
        RETURNING created_at, updated_at, row_version
    `,
		b.ID,
		b.CustomID,
		b.LandID,
		b.Name,
		b.NumberOfFloors,
		b.YearBuilt,
		b.Type,
		b.Size,
		b.Description,
		textArray(b.Features),
		textArray(b.Amenities),
		b.TotalBedrooms,
		b.TotalBathrooms,
		b.ParkingSpaces,
		b.Utilities,
		b.MaintenanceCost,
		b.ManagementCompany,
		b.ConstructionMaterial,
		b.Architect,
		b.Uses,
		b.YearUpgraded,
	).Scan(&b.CreatedAt, &b.UpdatedAt, &b.RowVersion)
}

func (r *buildingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	return r.getByID(ctx, id)
}

func (r *buildingRepo) GetByCustomID(ctx context.Context, customID string) (*models.Building, error) {
	row := r.db.QueryRow(ctx, baseSelectBuilding()+" WHERE custom_id=$1", customID)
	return scanBuilding(row)
}

func (r *buildingRepo) FindByNaturalKey(ctx context.Context, name string, landID uuid.UUID) (*models.Building, error) {
	row := r.db.QueryRow(ctx, baseSelectBuilding()+" WHERE name=$1 AND land_id=$2", name, landID)
	return scanBuilding(row)
}

func (r *buildingRepo) ListByLandID(ctx context.Context, landID uuid.UUID) ([]*models.Building, error) {
	rows, err := r.db.Query(ctx, baseSelectBuilding()+" WHERE land_id=$1 ORDER BY custom_id", landID)
	if err != nil {
		return nil, err
	}
	return collectRows(rows, scanBuilding)
}

func (r *buildingRepo) MaxCustomIDWithPrefix(ctx context.Context, prefix string) (string, error) {
	return maxChildCode(ctx, r.db, "buildings", prefix, 3)
}

func (r *buildingRepo) LockByID(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	row := r.db.QueryRow(ctx, baseSelectBuilding()+" WHERE id=$1 FOR UPDATE", id)
	return scanBuilding(row)
}

func (r *buildingRepo) UpdateIfVersion(ctx context.Context, b *models.Building, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE buildings SET
            name=$1, number_of_floors=$2, year_built=$3, type=$4, size=$5,
            description=$6, features=$7, amenities=$8,
            total_bedrooms=$9, total_bathrooms=$10, parking_spaces=$11,
            utilities=$12, maintenance_cost=$13, management_company=$14,
            construction_material=$15, architect=$16, uses=$17, year_upgraded=$18,
            updated_at=NOW(),
            row_version=row_version+1
        WHERE id=$19 AND row_version=$20
    `,
		b.Name, b.NumberOfFloors, b.YearBuilt, b.Type, b.Size,
		b.Description, textArray(b.Features), textArray(b.Amenities),
		b.TotalBedrooms, b.TotalBathrooms, b.ParkingSpaces,
		b.Utilities, b.MaintenanceCost, b.ManagementCompany,
		b.ConstructionMaterial, b.Architect, b.Uses, b.YearUpgraded,
		b.ID, expected,
	)
}

func (r *buildingRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Building) error) error {
	return r.updateWithRetry(ctx, id, mutate, r.UpdateIfVersion)
}

func (r *buildingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM buildings WHERE id=$1`, id)
	return err
}

func baseSelectBuilding() string {
	return `
        SELECT
            id, custom_id, land_id, name, number_of_floors, year_built, type,
            size, description, features, amenities,
            total_bedrooms, total_bathrooms, parking_spaces, utilities,
            maintenance_cost, management_company, construction_material,
            architect, uses, year_upgraded,
            created_at, updated_at, row_version
        FROM buildings
    `
}

func scanBuilding(row pgx.Row) (*models.Building, error) {
	var b models.Building
	err := row.Scan(
		&b.ID,
		&b.CustomID,
		&b.LandID,
		&b.Name,
		&b.NumberOfFloors,
		&b.YearBuilt,
		&b.Type,
		&b.Size,
		&b.Description,
		&b.Features,
		&b.Amenities,
		&b.TotalBedrooms,
		&b.TotalBathrooms,
		&b.ParkingSpaces,
		&b.Utilities,
		&b.MaintenanceCost,
		&b.ManagementCompany,
		&b.ConstructionMaterial,
		&b.Architect,
		&b.Uses,
		&b.YearUpgraded,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}
