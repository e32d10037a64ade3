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

type LocationRepository interface {
	Create(ctx context.Context, l *models.Location) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error)
	FindByNaturalKey(ctx context.Context, country, latitude, longitude string) (*models.Location, error)
	// LockByID reads the row with FOR UPDATE. Must run inside a transaction.
	LockByID(ctx context.Context, id uuid.UUID) (*models.Location, error)

	UpdateIfVersion(ctx context.Context, l *models.Location, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Location) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type locationRepo struct {
	*versionedRepo[*models.Location]
	db DB
}

func NewLocationRepository(db DB) LocationRepository {
	r := &locationRepo{db: db}
	selectStmt := baseSelectLocation() + " WHERE id=$1"
	r.versionedRepo = newVersionedRepo(db, selectStmt, scanLocation)
	return r
}

func (r *locationRepo) Create(ctx context.Context, l *models.Location) error {
	return r.db.QueryRow(ctx, `
        INSERT INTO locations (
            id, country, state_region, district_county, ward, street_village,
            latitude, longitude, geohash, time_zone,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, NOW(), NOW(), 1)
        RETURNING created_at, updated_at, row_version
    `,
		l.ID,
		l.Country,
		l.StateRegion,
		l.DistrictCounty,
		l.Ward,
		l.StreetVillage,
		l.Latitude,
		l.Longitude,
		l.Geohash,
		l.TimeZone,
	).Scan(&l.CreatedAt, &l.UpdatedAt, &l.RowVersion)
}

func (r *locationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	return r.getByID(ctx, id)
}

func (r *locationRepo) FindByNaturalKey(ctx context.Context, country, latitude, longitude string) (*models.Location, error) {
	row := r.db.QueryRow(ctx,
		baseSelectLocation()+" WHERE country=$1 AND latitude=$2 AND longitude=$3",
		country, latitude, longitude,
	)
	return scanLocation(row)
}

func (r *locationRepo) LockByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	row := r.db.QueryRow(ctx, baseSelectLocation()+" WHERE id=$1 FOR UPDATE", id)
	return scanLocation(row)
}

func (r *locationRepo) UpdateIfVersion(ctx context.Context, l *models.Location, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE locations SET
            country=$1, state_region=$2, district_county=$3, ward=$4, street_village=$5,
            latitude=$6, longitude=$7, geohash=$8, time_zone=$9, updated_at=NOW(),
            row_version=row_version+1
        WHERE id=$10 AND row_version=$11
    `,
		l.Country, l.StateRegion, l.DistrictCounty, l.Ward, l.StreetVillage,
		l.Latitude, l.Longitude, l.Geohash, l.TimeZone,
		l.ID, expected,
	)
}

func (r *locationRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Location) error) error {
	return r.updateWithRetry(ctx, id, mutate, r.UpdateIfVersion)
}

func (r *locationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM locations WHERE id=$1`, id)
	return err
}

func baseSelectLocation() string {
	return `
        SELECT
            id, country, state_region, district_county, ward, street_village,
            latitude, longitude, geohash, time_zone,
            created_at, updated_at, row_version
        FROM locations
    `
}

func scanLocation(row pgx.Row) (*models.Location, error) {
	var l models.Location
	err := row.Scan(
		&l.ID,
		&l.Country,
		&l.StateRegion,
		&l.DistrictCounty,
		&l.Ward,
		&l.StreetVillage,
		&l.Latitude,
		&l.Longitude,
		&l.Geohash,
		&l.TimeZone,
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
