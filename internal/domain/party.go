package domain

// Party is the caller as seen by the ride lifecycle: either a Rider or a
// Driver, resolved once per request from the caller's profile.
type Party struct {
	UserID string
	Role   Role
}

// Rider returns the rider variant for userID.
func Rider(userID string) Party {
	return Party{UserID: userID, Role: RoleRider}
}

// Driver returns the driver variant for userID.
func Driver(userID string) Party {
	return Party{UserID: userID, Role: RoleDriver}
}

// PartyFor derives the party from a profile.
func PartyFor(p *Profile) Party {
	return Party{UserID: p.UserID, Role: p.Role}
}

func (p Party) IsRider() bool  { return p.Role == RoleRider }
func (p Party) IsDriver() bool { return p.Role == RoleDriver }

// IsRiderOf reports whether the caller is the ride's rider.
func IsRiderOf(ride *Ride, userID string) bool {
	return ride.RiderID == userID
}

// IsDriverOf reports whether the caller is the ride's assigned driver.
func IsDriverOf(ride *Ride, userID string) bool {
	return ride.DriverID != "" && ride.DriverID == userID
}

// IsPartyTo reports whether userID is the rider or the driver of the ride.
func IsPartyTo(ride *Ride, userID string) bool {
	return IsRiderOf(ride, userID) || IsDriverOf(ride, userID)
}

// CanCreate reports whether the party may request rides.
func CanCreate(p Party) bool {
	return p.IsRider()
}

// CanListAvailable reports whether the party may browse unclaimed requests.
func CanListAvailable(p Party) bool {
	return p.IsDriver()
}

// CanAccept reports whether the party may claim the ride.
func CanAccept(ride *Ride, p Party) bool {
	return p.IsDriver() && ride.Status == RideStatusRequested
}

// CanPickup reports whether the party may mark the rider as picked up.
func CanPickup(ride *Ride, userID string) bool {
	return IsDriverOf(ride, userID) && ride.Status == RideStatusAccepted
}

// CanComplete reports whether the party may complete the ride.
func CanComplete(ride *Ride, userID string) bool {
	return IsDriverOf(ride, userID) && ride.Status == RideStatusPickedUp
}

// CanCancel reports whether the party may cancel the ride.
func CanCancel(ride *Ride, userID string) bool {
	return IsPartyTo(ride, userID) && !ride.Status.IsTerminal()
}

// CanRate reports whether the party may rate the other side of the ride.
func CanRate(ride *Ride, userID string) bool {
	return IsPartyTo(ride, userID) && ride.Status == RideStatusCompleted
}

// CanMessage reports whether the party may post to the ride's chat.
func CanMessage(ride *Ride, userID string) bool {
	return IsPartyTo(ride, userID)
}

// CanView reports whether the party may read the ride and its chat.
func CanView(ride *Ride, userID string) bool {
	return IsPartyTo(ride, userID)
}

// CanPay reports whether the party may settle the ride.
func CanPay(ride *Ride, userID string) bool {
	return IsRiderOf(ride, userID) && ride.Status == RideStatusCompleted
}
