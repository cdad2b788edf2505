package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderguild/internal/services"
	"wanderguild/utils/ratelimit"
)

// AwardHandler exposes the award operation to the visit-processing service.
// The response is deliberately a bare boolean: callers treat every
// non-reward the same way, whatever the internal reason was.
type AwardHandler struct {
	AwardService *services.AwardService
	Resolver     services.ContextResolver
	Limiter      *ratelimit.AttemptLimiter
}

func NewAwardHandler(awardService *services.AwardService, resolver services.ContextResolver, limiter *ratelimit.AttemptLimiter) *AwardHandler {
	return &AwardHandler{
		AwardService: awardService,
		Resolver:     resolver,
		Limiter:      limiter,
	}
}

type awardRequest struct {
	UserID    string   `json:"user_id" binding:"required"`
	StayID    string   `json:"stay_id" binding:"required"`
	PlaceID   string   `json:"place_id" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// Award processes one award attempt for a stay
func (h *AwardHandler) Award(c *gin.Context) {
	var req awardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if h.Limiter != nil {
		allowed, err := h.Limiter.Allow(c.Request.Context(), req.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "rate limit check failed"})
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many award attempts"})
			return
		}
	}

	rewarded, err := h.AwardService.Award(c.Request.Context(), req.UserID, req.StayID, req.PlaceID, *req.Latitude, *req.Longitude)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "award processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rewarded": rewarded})
}

// ResolveContext exposes guild context resolution for diagnostics
func (h *AwardHandler) ResolveContext(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	var coords struct {
		Latitude  *float64 `form:"latitude" binding:"required"`
		Longitude *float64 `form:"longitude" binding:"required"`
	}
	if err := c.ShouldBindQuery(&coords); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required"})
		return
	}

	result, err := h.Resolver.Resolve(c.Request.Context(), userID, *coords.Latitude, *coords.Longitude)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context resolution failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
