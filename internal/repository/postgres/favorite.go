package postgres

import (
	"context"
	"database/sql"

	"ridehail/internal/domain"
)

// FavoriteLocationRepository is a PostgreSQL implementation of
// repository.FavoriteLocationRepository.
type FavoriteLocationRepository struct {
	q Querier
}

func NewFavoriteLocationRepository(db *sql.DB) *FavoriteLocationRepository {
	return &FavoriteLocationRepository{q: db}
}

func NewFavoriteLocationRepositoryWithTx(tx *sql.Tx) *FavoriteLocationRepository {
	return &FavoriteLocationRepository{q: tx}
}

func (r *FavoriteLocationRepository) Create(ctx context.Context, loc *domain.FavoriteLocation) error {
	query := `
		INSERT INTO favorite_locations (id, user_id, name, address, lat, lng, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q.ExecContext(ctx, query,
		loc.ID, loc.UserID, loc.Name, loc.Address, loc.Lat, loc.Lng, loc.CreatedAt, loc.UpdatedAt)
	return err
}

func (r *FavoriteLocationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.FavoriteLocation, error) {
	query := `
		SELECT id, user_id, name, address, lat, lng, created_at, updated_at
		FROM favorite_locations WHERE user_id = $1 ORDER BY created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := []*domain.FavoriteLocation{}
	for rows.Next() {
		var l domain.FavoriteLocation
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.Address, &l.Lat, &l.Lng, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, &l)
	}
	return locations, rows.Err()
}

// Delete removes a place owned by userID; ErrNotFound otherwise.
func (r *FavoriteLocationRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM favorite_locations WHERE id = $1 AND user_id = $2`
	return expectOneRow(r.q.ExecContext(ctx, query, id, userID))
}
