package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sabsesasta/price-service/internal/database"
	"github.com/sabsesasta/price-service/internal/listings"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Listings string `json:"listings"`
}

// breakerReporter is implemented by guarded listing sources.
type breakerReporter interface {
	State() listings.BreakerState
}

// HealthCheck handles the health check endpoint
// @Summary Health check
// @Description Reports database connectivity and the listing source breaker state
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:   "ok",
		Listings: "unguarded",
	}

	if reporter, ok := listingSource.(breakerReporter); ok {
		state := reporter.State()
		response.Listings = state.String()
		if state != listings.BreakerClosed {
			response.Status = "degraded"
		}
	}

	// Check database connection
	if database.Pool() != nil {
		err := database.Status(c.Request.Context())
		if err != nil {
			response.Status = "unavailable"
			response.Database = "disconnected"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
		response.Database = "connected"
	} else {
		response.Database = "not configured"
	}

	c.JSON(http.StatusOK, response)
}
