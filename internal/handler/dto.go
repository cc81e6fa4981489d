package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"ridehail/internal/domain"
)

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID                       string              `json:"id"`
	RiderID                  string              `json:"rider_id"`
	DriverID                 *string             `json:"driver_id"`
	Status                   domain.RideStatus   `json:"status"`
	PickupLatitude           float64             `json:"pickup_latitude"`
	PickupLongitude          float64             `json:"pickup_longitude"`
	PickupAddress            string              `json:"pickup_address"`
	DropoffLatitude          float64             `json:"dropoff_latitude"`
	DropoffLongitude         float64             `json:"dropoff_longitude"`
	DropoffAddress           string              `json:"dropoff_address"`
	RiderPrice               decimal.NullDecimal `json:"rider_price"`
	DriverPrice              decimal.NullDecimal `json:"driver_price"`
	FinalPrice               decimal.NullDecimal `json:"final_price"`
	DistanceKm               *float64            `json:"distance_km"`
	EstimatedDurationMinutes *int                `json:"estimated_duration_minutes"`
	VehicleType              string              `json:"vehicle_type"`
	ScheduledTime            *time.Time          `json:"scheduled_time"`
	PaymentMethod            string              `json:"payment_method"`
	RiderRating              *int                `json:"rider_rating"`
	DriverRating             *int                `json:"driver_rating"`
	RiderFeedback            *string             `json:"rider_feedback"`
	DriverFeedback           *string             `json:"driver_feedback"`
	AcceptedAt               *time.Time          `json:"accepted_at"`
	StartedAt                *time.Time          `json:"started_at"`
	CompletedAt              *time.Time          `json:"completed_at"`
	CancelledAt              *time.Time          `json:"cancelled_at"`
	CreatedAt                time.Time           `json:"created_at"`
	UpdatedAt                time.Time           `json:"updated_at"`
}

func toRideResponse(r *domain.Ride) RideResponse {
	return RideResponse{
		ID:                       r.ID,
		RiderID:                  r.RiderID,
		DriverID:                 stringPtr(r.DriverID),
		Status:                   r.Status,
		PickupLatitude:           r.PickupLat,
		PickupLongitude:          r.PickupLng,
		PickupAddress:            r.PickupAddress,
		DropoffLatitude:          r.DropoffLat,
		DropoffLongitude:         r.DropoffLng,
		DropoffAddress:           r.DropoffAddress,
		RiderPrice:               r.RiderPrice,
		DriverPrice:              r.DriverPrice,
		FinalPrice:               r.FinalPrice,
		DistanceKm:               r.DistanceKm,
		EstimatedDurationMinutes: r.EstimatedDurationMinutes,
		VehicleType:              r.VehicleType,
		ScheduledTime:            r.ScheduledTime,
		PaymentMethod:            r.PaymentMethod,
		RiderRating:              r.RiderRating,
		DriverRating:             r.DriverRating,
		RiderFeedback:            stringPtr(r.RiderFeedback),
		DriverFeedback:           stringPtr(r.DriverFeedback),
		AcceptedAt:               timePtr(r.AcceptedAt),
		StartedAt:                timePtr(r.StartedAt),
		CompletedAt:              timePtr(r.CompletedAt),
		CancelledAt:              timePtr(r.CancelledAt),
		CreatedAt:                r.CreatedAt,
		UpdatedAt:                r.UpdatedAt,
	}
}

func toRideResponses(rides []*domain.Ride) []RideResponse {
	out := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		out = append(out, toRideResponse(r))
	}
	return out
}

// ProfileResponse is the HTTP representation of a profile.
type ProfileResponse struct {
	ID               string      `json:"id"`
	UserID           string      `json:"user_id"`
	Role             domain.Role `json:"role"`
	FullName         *string     `json:"full_name"`
	PhoneNumber      *string     `json:"phone_number"`
	ProfileImageURL  *string     `json:"profile_image_url"`
	VehicleType      *string     `json:"vehicle_type"`
	VehiclePlate     *string     `json:"vehicle_plate"`
	VehicleColor     *string     `json:"vehicle_color"`
	Rating           *float64    `json:"rating"`
	TotalRides       int         `json:"total_rides"`
	IsAvailable      bool        `json:"is_available"`
	CurrentLatitude  *float64    `json:"current_latitude"`
	CurrentLongitude *float64    `json:"current_longitude"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

func toProfileResponse(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:               p.ID,
		UserID:           p.UserID,
		Role:             p.Role,
		FullName:         stringPtr(p.FullName),
		PhoneNumber:      stringPtr(p.PhoneNumber),
		ProfileImageURL:  stringPtr(p.ProfileImageURL),
		VehicleType:      stringPtr(p.Vehicle.Type),
		VehiclePlate:     stringPtr(p.Vehicle.Plate),
		VehicleColor:     stringPtr(p.Vehicle.Color),
		Rating:           p.Rating,
		TotalRides:       p.TotalRides,
		IsAvailable:      p.IsAvailable,
		CurrentLatitude:  p.CurrentLat,
		CurrentLongitude: p.CurrentLng,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// MessageResponse is the HTTP representation of a chat line.
type MessageResponse struct {
	ID        string    `json:"id"`
	RideID    string    `json:"ride_id"`
	SenderID  string    `json:"sender_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toMessageResponse(m *domain.RideMessage) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		RideID:    m.RideID,
		SenderID:  m.SenderID,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FavoriteLocationResponse is the HTTP representation of a saved place.
type FavoriteLocationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toFavoriteLocationResponse(l *domain.FavoriteLocation) FavoriteLocationResponse {
	return FavoriteLocationResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		Name:      l.Name,
		Address:   l.Address,
		Latitude:  l.Lat,
		Longitude: l.Lng,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// LocationResponse is a coordinate pair.
type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// EarningsResponse is a driver's earnings summary.
type EarningsResponse struct {
	Today      decimal.Decimal `json:"today"`
	Week       decimal.Decimal `json:"week"`
	Month      decimal.Decimal `json:"month"`
	TotalRides int             `json:"totalRides"`
}

// WalletResponse is the HTTP representation of a wallet.
type WalletResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:        w.ID,
		UserID:    w.UserID,
		Balance:   w.Balance,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// WalletTransactionResponse is one wallet ledger row.
type WalletTransactionResponse struct {
	ID              string                 `json:"id"`
	WalletID        string                 `json:"wallet_id"`
	Amount          decimal.Decimal        `json:"amount"`
	TransactionType domain.TransactionType `json:"transaction_type"`
	Description     *string                `json:"description"`
	RideID          *string                `json:"ride_id"`
	CreatedAt       time.Time              `json:"created_at"`
}

func toWalletTransactionResponse(t *domain.WalletTransaction) WalletTransactionResponse {
	return WalletTransactionResponse{
		ID:              t.ID,
		WalletID:        t.WalletID,
		Amount:          t.Amount,
		TransactionType: t.Type,
		Description:     stringPtr(t.Description),
		RideID:          stringPtr(t.RideID),
		CreatedAt:       t.CreatedAt,
	}
}

// PaymentTransactionResponse is the HTTP representation of a payment attempt.
type PaymentTransactionResponse struct {
	ID            string                 `json:"id"`
	RideID        string                 `json:"ride_id"`
	UserID        string                 `json:"user_id"`
	Provider      domain.PaymentProvider `json:"provider"`
	Amount        decimal.Decimal        `json:"amount"`
	PhoneNumber   string                 `json:"phone_number"`
	TransactionID *string                `json:"transaction_id"`
	Status        domain.PaymentStatus   `json:"status"`
	ResponseData  *string                `json:"response_data"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

func toPaymentTransactionResponse(p *domain.PaymentTransaction) PaymentTransactionResponse {
	return PaymentTransactionResponse{
		ID:            p.ID,
		RideID:        p.RideID,
		UserID:        p.UserID,
		Provider:      p.Provider,
		Amount:        p.Amount,
		PhoneNumber:   p.PhoneNumber,
		TransactionID: stringPtr(p.TransactionID),
		Status:        p.Status,
		ResponseData:  stringPtr(p.ResponseData),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// PaymentResponse wraps a settled payment.
type PaymentResponse struct {
	Success     bool                       `json:"success"`
	Transaction PaymentTransactionResponse `json:"transaction"`
	Message     string                     `json:"message"`
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
