package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderguild/internal/repository"
)

// LocationHandler receives live position reports from clients. Positions
// feed guild context resolution; nothing else reads them.
type LocationHandler struct {
	Locations repository.ILiveLocationRepository
}

func NewLocationHandler(locations repository.ILiveLocationRepository) *LocationHandler {
	return &LocationHandler{Locations: locations}
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// Update stores the user's latest reported position
func (h *LocationHandler) Update(c *gin.Context) {
	userID := c.Param("user_id")

	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.Locations.Update(c.Request.Context(), userID, *req.Latitude, *req.Longitude); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store location"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Remove forgets the user's position, e.g. when they turn location sharing off
func (h *LocationHandler) Remove(c *gin.Context) {
	userID := c.Param("user_id")

	if err := h.Locations.Remove(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove location"})
		return
	}

	c.Status(http.StatusNoContent)
}
