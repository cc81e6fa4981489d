package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
	"ridehail/internal/service"
)

// ProfileHandler handles HTTP requests for profiles.
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// CreateProfileRequest is the HTTP request body for creating a profile.
type CreateProfileRequest struct {
	Role            string `json:"role" binding:"required,oneof=rider driver"`
	FullName        string `json:"full_name" binding:"required,max=200"`
	PhoneNumber     string `json:"phone_number" binding:"required,max=32"`
	ProfileImageURL string `json:"profile_image_url,omitempty" binding:"omitempty,url"`
	VehicleType     string `json:"vehicle_type,omitempty" binding:"max=32"`
	VehiclePlate    string `json:"vehicle_plate,omitempty" binding:"max=32"`
	VehicleColor    string `json:"vehicle_color,omitempty" binding:"max=32"`
}

// UpdateProfileRequest is the HTTP request body for a partial profile update.
type UpdateProfileRequest struct {
	FullName         *string  `json:"full_name" binding:"omitempty,min=1,max=200"`
	PhoneNumber      *string  `json:"phone_number" binding:"omitempty,max=32"`
	VehicleType      *string  `json:"vehicle_type" binding:"omitempty,max=32"`
	VehiclePlate     *string  `json:"vehicle_plate" binding:"omitempty,max=32"`
	VehicleColor     *string  `json:"vehicle_color" binding:"omitempty,max=32"`
	IsAvailable      *bool    `json:"is_available"`
	CurrentLatitude  *float64 `json:"current_latitude" binding:"omitempty,gte=-90,lte=90"`
	CurrentLongitude *float64 `json:"current_longitude" binding:"omitempty,gte=-180,lte=180"`
}

// CreateProfile handles POST /api/profiles
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.profileService.CreateProfile(c.Request.Context(), service.CreateProfileRequest{
		UserID:          userID,
		Role:            domain.Role(req.Role),
		FullName:        req.FullName,
		PhoneNumber:     req.PhoneNumber,
		ProfileImageURL: req.ProfileImageURL,
		Vehicle: domain.Vehicle{
			Type:  req.VehicleType,
			Plate: req.VehiclePlate,
			Color: req.VehicleColor,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toProfileResponse(profile))
}

// GetProfile handles GET /api/profiles/me
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toProfileResponse(profile))
}

// UpdateProfile handles PUT /api/profiles/me
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, repository.ProfileUpdate{
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		VehicleType:  req.VehicleType,
		VehiclePlate: req.VehiclePlate,
		VehicleColor: req.VehicleColor,
		IsAvailable:  req.IsAvailable,
		CurrentLat:   req.CurrentLatitude,
		CurrentLng:   req.CurrentLongitude,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toProfileResponse(profile))
}
