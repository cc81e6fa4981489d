package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"ridehail/internal/service"
)

// RideHandler handles HTTP requests for rides, their chat and ratings.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

// CreateRideRequest is the HTTP request body for creating a ride.
type CreateRideRequest struct {
	PickupLatitude   *float64   `json:"pickup_latitude" binding:"required,gte=-90,lte=90"`
	PickupLongitude  *float64   `json:"pickup_longitude" binding:"required,gte=-180,lte=180"`
	PickupAddress    string     `json:"pickup_address" binding:"max=500"`
	DropoffLatitude  *float64   `json:"dropoff_latitude" binding:"required,gte=-90,lte=90"`
	DropoffLongitude *float64   `json:"dropoff_longitude" binding:"required,gte=-180,lte=180"`
	DropoffAddress   string     `json:"dropoff_address" binding:"max=500"`
	RiderPrice       float64    `json:"rider_price" binding:"required,gt=0"`
	VehicleType      string     `json:"vehicle_type,omitempty" binding:"omitempty,max=32"`
	ScheduledTime    *time.Time `json:"scheduled_time,omitempty"`
	PaymentMethod    string     `json:"payment_method,omitempty" binding:"omitempty,max=32"`
}

// AcceptRideRequest is the HTTP request body for accepting a ride.
type AcceptRideRequest struct {
	DriverPrice float64 `json:"driver_price" binding:"required,gt=0"`
}

// RateRideRequest is the HTTP request body for rating a ride.
type RateRideRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback,omitempty" binding:"max=1000"`
}

// SendMessageRequest is the HTTP request body for a chat line.
type SendMessageRequest struct {
	Message string `json:"message" binding:"required,max=1000"`
}

// CreateRide handles POST /api/rides
func (h *RideHandler) CreateRide(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ride, err := h.rideService.CreateRide(c.Request.Context(), service.CreateRideRequest{
		RiderID:        userID,
		PickupLat:      *req.PickupLatitude,
		PickupLng:      *req.PickupLongitude,
		PickupAddress:  req.PickupAddress,
		DropoffLat:     *req.DropoffLatitude,
		DropoffLng:     *req.DropoffLongitude,
		DropoffAddress: req.DropoffAddress,
		RiderPrice:     decimal.NewFromFloat(req.RiderPrice),
		VehicleType:    req.VehicleType,
		ScheduledTime:  req.ScheduledTime,
		PaymentMethod:  req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride))
}

// ListRides handles GET /api/rides
func (h *RideHandler) ListRides(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	rides, err := h.rideService.ListRides(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// ListAvailable handles GET /api/rides/available
func (h *RideHandler) ListAvailable(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	rides, err := h.rideService.ListAvailableRides(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// GetRide handles GET /api/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ride, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// AcceptRide handles POST /api/rides/:id/accept
func (h *RideHandler) AcceptRide(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req AcceptRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ride, err := h.rideService.AcceptRide(c.Request.Context(), c.Param("id"), userID, decimal.NewFromFloat(req.DriverPrice))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// PickupRide handles POST /api/rides/:id/pickup
func (h *RideHandler) PickupRide(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ride, err := h.rideService.PickupRide(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// CompleteRide handles POST /api/rides/:id/complete
func (h *RideHandler) CompleteRide(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ride, err := h.rideService.CompleteRide(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// CancelRide handles POST /api/rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ride, err := h.rideService.CancelRide(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// RateRide handles POST /api/rides/:id/rate
func (h *RideHandler) RateRide(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req RateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ride, err := h.rideService.RateRide(c.Request.Context(), service.RateRideRequest{
		RideID:   c.Param("id"),
		UserID:   userID,
		Rating:   req.Rating,
		Feedback: req.Feedback,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// ListMessages handles GET /api/rides/:id/messages
func (h *RideHandler) ListMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	messages, err := h.rideService.ListMessages(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, toMessageResponse(m))
	}
	respondJSON(c, http.StatusOK, out)
}

// SendMessage handles POST /api/rides/:id/messages
func (h *RideHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	msg, err := h.rideService.SendMessage(c.Request.Context(), c.Param("id"), userID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toMessageResponse(msg))
}

// DriverLocation handles GET /api/rides/:id/driver-location
func (h *RideHandler) DriverLocation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	loc, err := h.rideService.DriverLocation(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, LocationResponse{Latitude: loc.Lat, Longitude: loc.Lng})
}
