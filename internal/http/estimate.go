package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/pantry/internal/estimation"
)

type EstimateController struct {
	estimator *estimation.Estimator
}

func NewEstimateController(estimator *estimation.Estimator) *EstimateController {
	return &EstimateController{estimator: estimator}
}

// Estimate returns a shelf-life estimate for a product in a given storage
// location.
// POST /api/estimate
func (ec *EstimateController) Estimate(c *gin.Context) {
	var req estimation.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	estimate, err := ec.estimator.Estimate(c.Request.Context(), req)
	if err != nil {
		respondAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, estimate)
}
