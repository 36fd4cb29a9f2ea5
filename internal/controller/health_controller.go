package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"game-data-hub/internal/cache"
	"game-data-hub/internal/repository"
	"game-data-hub/internal/storage/blob"
)

const serviceVersion = "1.0.0"

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Database  DatabaseStatus    `json:"database"`
	Exports   string            `json:"exports,omitempty"`
	Cache     *cache.CacheStats `json:"cache,omitempty"`
}

type DatabaseStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type HealthController struct {
	store   repository.Store
	schemas *cache.SchemaCache
	blobs   blob.Store
}

// NewHealthController reports on store connectivity. schemas and blobs may
// be nil.
func NewHealthController(store repository.Store, schemas *cache.SchemaCache, blobs blob.Store) *HealthController {
	return &HealthController{
		store:   store,
		schemas: schemas,
		blobs:   blobs,
	}
}

func (hc *HealthController) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Service:   "game-data-hub",
		Version:   serviceVersion,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := hc.store.Ping(ctx); err != nil {
		response.Status = "unhealthy"
		response.Database = DatabaseStatus{
			Status:  "disconnected",
			Message: "Database ping failed: " + err.Error(),
		}
	} else {
		response.Database = DatabaseStatus{
			Status:  "connected",
			Message: "Database connection healthy",
		}
	}

	if hc.blobs != nil {
		response.Exports = string(hc.blobs.Driver())
	}
	if hc.schemas != nil {
		stats := hc.schemas.GetStats()
		response.Cache = &stats
	}

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}
