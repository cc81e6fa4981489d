package domain

import "time"

// Role is the marketplace side a profile belongs to. It is fixed once set.
type Role string

const (
	RoleRider  Role = "rider"
	RoleDriver Role = "driver"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleRider || r == RoleDriver
}

// Vehicle holds driver-only vehicle details.
type Vehicle struct {
	Type  string
	Plate string
	Color string
}

// Profile is the marketplace profile of an authenticated identity.
type Profile struct {
	ID              string
	UserID          string
	Role            Role
	FullName        string
	PhoneNumber     string
	ProfileImageURL string
	Vehicle         Vehicle
	Rating          *float64
	TotalRides      int
	IsAvailable     bool
	CurrentLat      *float64
	CurrentLng      *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsDriver reports whether the profile belongs to a driver.
func (p *Profile) IsDriver() bool {
	return p.Role == RoleDriver
}

// Location is a bare coordinate pair.
type Location struct {
	Lat float64
	Lng float64
}

// FavoriteLocation is a saved place owned by one identity.
type FavoriteLocation struct {
	ID        string
	UserID    string
	Name      string
	Address   string
	Lat       float64
	Lng       float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
