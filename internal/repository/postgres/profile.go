package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// ProfileRepository implements repository.ProfileRepository using PostgreSQL.
type ProfileRepository struct {
	q Querier
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{q: db}
}

// NewProfileRepositoryWithTx creates a profile repository using a transaction.
func NewProfileRepositoryWithTx(tx *sql.Tx) *ProfileRepository {
	return &ProfileRepository{q: tx}
}

// Create adds a new profile.
func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO user_profiles (id, user_id, role, full_name, phone_number, profile_image_url,
			vehicle_type, vehicle_plate, vehicle_color, total_rides, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.q.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.Role,
		nullString(p.FullName),
		nullString(p.PhoneNumber),
		nullString(p.ProfileImageURL),
		nullString(p.Vehicle.Type),
		nullString(p.Vehicle.Plate),
		nullString(p.Vehicle.Color),
		p.TotalRides,
		p.IsAvailable,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return translateInsertErr(err)
}

// GetByUserID retrieves the profile of an identity.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT id, user_id, role, full_name, phone_number, profile_image_url,
			vehicle_type, vehicle_plate, vehicle_color, rating, total_rides, is_available,
			current_lat, current_lng, created_at, updated_at
		FROM user_profiles WHERE user_id = $1
	`

	var p domain.Profile
	var fullName, phone, image, vType, vPlate, vColor sql.NullString
	var rating, lat, lng sql.NullFloat64

	err := r.q.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Role, &fullName, &phone, &image,
		&vType, &vPlate, &vColor, &rating, &p.TotalRides, &p.IsAvailable,
		&lat, &lng, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.FullName = fullName.String
	p.PhoneNumber = phone.String
	p.ProfileImageURL = image.String
	p.Vehicle = domain.Vehicle{Type: vType.String, Plate: vPlate.String, Color: vColor.String}
	p.Rating = floatPtr(rating)
	p.CurrentLat = floatPtr(lat)
	p.CurrentLng = floatPtr(lng)
	return &p, nil
}

// Update applies the non-nil fields of update.
func (r *ProfileRepository) Update(ctx context.Context, userID string, update repository.ProfileUpdate) error {
	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.FullName != nil {
		add("full_name", *update.FullName)
	}
	if update.PhoneNumber != nil {
		add("phone_number", *update.PhoneNumber)
	}
	if update.VehicleType != nil {
		add("vehicle_type", *update.VehicleType)
	}
	if update.VehiclePlate != nil {
		add("vehicle_plate", *update.VehiclePlate)
	}
	if update.VehicleColor != nil {
		add("vehicle_color", *update.VehicleColor)
	}
	if update.IsAvailable != nil {
		add("is_available", *update.IsAvailable)
	}
	if update.CurrentLat != nil {
		add("current_lat", *update.CurrentLat)
	}
	if update.CurrentLng != nil {
		add("current_lng", *update.CurrentLng)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, userID)
	query := fmt.Sprintf(`UPDATE user_profiles SET %s WHERE user_id = $%d`, strings.Join(sets, ", "), len(args))
	return expectOneRow(r.q.ExecContext(ctx, query, args...))
}

// IncrementTotalRides adds one completed ride to each identity.
func (r *ProfileRepository) IncrementTotalRides(ctx context.Context, userIDs ...string) error {
	query := `UPDATE user_profiles SET total_rides = total_rides + 1, updated_at = NOW() WHERE user_id = $1`
	for _, id := range userIDs {
		if _, err := r.q.ExecContext(ctx, query, id); err != nil {
			return err
		}
	}
	return nil
}

// SetRating stores the identity's average rating.
func (r *ProfileRepository) SetRating(ctx context.Context, userID string, rating *float64) error {
	query := `UPDATE user_profiles SET rating = $1, updated_at = NOW() WHERE user_id = $2`
	_, err := r.q.ExecContext(ctx, query, rating, userID)
	return err
}
