package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type LocationsController struct {
	store LocationStore
}

func NewLocationsController(store LocationStore) *LocationsController {
	return &LocationsController{store: store}
}

// ListLocations returns all storage locations in display order.
// GET /api/locations
func (lc *LocationsController) ListLocations(c *gin.Context) {
	locations, err := lc.store.GetAll()
	if err != nil {
		respondInternalError(c, err, "list locations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}
