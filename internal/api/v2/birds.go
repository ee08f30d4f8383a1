// internal/api/v2/birds.go
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kicau/birdwatch-go/internal/errors"
	"github.com/kicau/birdwatch-go/internal/observability/metrics"
)

// initBirdRoutes registers all catalog-related API endpoints
func (c *Controller) initBirdRoutes() {
	c.Group.GET("/birds", c.GetBirds)
	c.Group.GET("/birds/:id", c.GetBird)
	c.Group.GET("/birds/name/:commonName", c.GetBirdByName)
	c.Group.GET("/birds/habitat/:habitat", c.GetBirdsByHabitat)
}

// GetBirds returns the full catalog ordered by ID
func (c *Controller) GetBirds(ctx echo.Context) error {
	start := time.Now()
	birds, err := c.DS.GetAllBirds()
	if err != nil {
		c.recordBirdOp(metrics.OpBirdList, metrics.StatusError, start)
		return c.HandleError(ctx, err, "Failed to get birds", http.StatusInternalServerError)
	}

	c.recordBirdOp(metrics.OpBirdList, metrics.StatusSuccess, start)
	return ctx.JSON(http.StatusOK, birds)
}

// GetBird returns a single bird by its numeric identifier
func (c *Controller) GetBird(ctx echo.Context) error {
	idParam := ctx.Param("id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		return c.HandleError(ctx, errors.Newf("invalid bird ID: %s", idParam).
			Category(errors.CategoryValidation).
			Context("id", idParam).
			Component("api-birds").
			Build(), "Invalid ID format: "+idParam, http.StatusBadRequest)
	}

	start := time.Now()
	bird, err := c.DS.GetBird(uint(id))
	if err != nil {
		if errors.IsNotFound(err) {
			c.recordBirdOp(metrics.OpBirdGet, metrics.StatusError, start)
			return c.HandleError(ctx, err, "Bird with ID "+idParam+" not found", http.StatusNotFound)
		}
		c.recordBirdOp(metrics.OpBirdGet, metrics.StatusError, start)
		return c.HandleError(ctx, err, "Failed to get bird", http.StatusInternalServerError)
	}

	c.recordBirdOp(metrics.OpBirdGet, metrics.StatusSuccess, start)
	return ctx.JSON(http.StatusOK, bird)
}

// GetBirdByName returns a single bird matched by exact common name
func (c *Controller) GetBirdByName(ctx echo.Context) error {
	name := ctx.Param("commonName")

	start := time.Now()
	bird, err := c.DS.GetBirdByCommonName(name)
	if err != nil {
		if errors.IsNotFound(err) {
			c.recordBirdOp(metrics.OpBirdSearch, metrics.StatusError, start)
			return c.HandleError(ctx, err, "Bird with name \""+name+"\" not found", http.StatusNotFound)
		}
		c.recordBirdOp(metrics.OpBirdSearch, metrics.StatusError, start)
		return c.HandleError(ctx, err, "Failed to get bird", http.StatusInternalServerError)
	}

	c.recordBirdOp(metrics.OpBirdSearch, metrics.StatusSuccess, start)
	return ctx.JSON(http.StatusOK, bird)
}

// GetBirdsByHabitat returns birds whose habitat contains the given term,
// case-insensitively. An empty result is a valid response, not an error.
func (c *Controller) GetBirdsByHabitat(ctx echo.Context) error {
	habitat := ctx.Param("habitat")

	start := time.Now()
	birds, err := c.DS.GetBirdsByHabitat(habitat)
	if err != nil {
		c.recordBirdOp(metrics.OpBirdSearch, metrics.StatusError, start)
		return c.HandleError(ctx, err, "Failed to search birds by habitat", http.StatusInternalServerError)
	}

	c.recordBirdOp(metrics.OpBirdSearch, metrics.StatusSuccess, start)
	if c.metrics != nil && c.metrics.Datastore != nil {
		c.metrics.Datastore.RecordSearchResultSize(metrics.OpBirdSearch, len(birds))
	}
	return ctx.JSON(http.StatusOK, birds)
}

// recordBirdOp records a datastore operation outcome and duration
func (c *Controller) recordBirdOp(operation, status string, start time.Time) {
	if c.metrics == nil || c.metrics.Datastore == nil {
		return
	}
	c.metrics.Datastore.RecordDbOperation(operation, status)
	c.metrics.Datastore.RecordDbOperationDuration(operation, time.Since(start).Seconds())
}
