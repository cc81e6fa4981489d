package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/service"
)

// FavoriteHandler handles HTTP requests for saved places.
type FavoriteHandler struct {
	favoriteService *service.FavoriteService
}

func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// CreateFavoriteLocationRequest is the HTTP request body for saving a place.
type CreateFavoriteLocationRequest struct {
	Name      string   `json:"name" binding:"required,max=100"`
	Address   string   `json:"address" binding:"required,max=500"`
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
}

// List handles GET /api/favorite-locations
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	locations, err := h.favoriteService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]FavoriteLocationResponse, 0, len(locations))
	for _, l := range locations {
		out = append(out, toFavoriteLocationResponse(l))
	}
	respondJSON(c, http.StatusOK, out)
}

// Create handles POST /api/favorite-locations
func (h *FavoriteHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateFavoriteLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	loc, err := h.favoriteService.Create(c.Request.Context(), userID, req.Name, req.Address, *req.Latitude, *req.Longitude)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toFavoriteLocationResponse(loc))
}

// Delete handles DELETE /api/favorite-locations/:id
func (h *FavoriteHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.favoriteService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SuccessResponse{Success: true})
}
