package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/plotline/mono-repo/backend/shared/go-models"
)

type MediaRepository interface {
	Create(ctx context.Context, m *models.Media) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Media, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type mediaRepo struct {
	db DB
}

func NewMediaRepository(db DB) MediaRepository {
	return &mediaRepo{db: db}
}

func (r *mediaRepo) Create(ctx context.Context, m *models.Media) error {
	return r.db.QueryRow(ctx, `
        INSERT INTO media (
            id, image_url, image_title, image_description,
            video_url, video_title, video_description,
            virtual_tour_url, virtual_tour_title, virtual_tour_description,
            created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, NOW())
        RETURNING created_at
    `,
		m.ID,
		m.ImageURL,
		m.ImageTitle,
		m.ImageDescription,
		m.VideoURL,
		m.VideoTitle,
		m.VideoDescription,
		m.VirtualTourURL,
		m.VirtualTourTitle,
		m.VirtualTourDescription,
	).Scan(&m.CreatedAt)
}

func (r *mediaRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	var m models.Media
	err := r.db.QueryRow(ctx, `
        SELECT
            id, image_url, image_title, image_description,
            video_url, video_title, video_description,
            virtual_tour_url, virtual_tour_title, virtual_tour_description,
            created_at
        FROM media
        WHERE id=$1
    `, id).Scan(
		&m.ID,
		&m.ImageURL,
		&m.ImageTitle,
		&m.ImageDescription,
		&m.VideoURL,
		&m.VideoTitle,
		&m.VideoDescription,
		&m.VirtualTourURL,
		&m.VirtualTourTitle,
		&m.VirtualTourDescription,
		&m.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *mediaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM media WHERE id=$1`, id)
	return err
}
