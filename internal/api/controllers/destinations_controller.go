package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripchat/internal/services"
	"tripchat/pkg/utils"
)

type DestinationsController struct {
	destinationService services.DestinationServiceInterface
}

func NewDestinationsController(destinationService services.DestinationServiceInterface) *DestinationsController {
	return &DestinationsController{
		destinationService: destinationService,
	}
}

// ListDestinationsHandler is the bulk-fetch endpoint: the full catalog, no
// pagination. The enrichment path consumes the same service call.
func (d *DestinationsController) ListDestinationsHandler(c *gin.Context) {
	destinations, err := d.destinationService.ListDestinations(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, destinations, "Destinations fetched")
}

func (d *DestinationsController) GetDestinationHandler(c *gin.Context) {
	destination, err := d.destinationService.GetDestinationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, destination, "Destination fetched")
}

func (d *DestinationsController) SearchDestinationsHandler(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.RespondError(c, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	destinations, err := d.destinationService.SearchDestinations(c.Request.Context(), query)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, destinations, "Destinations fetched")
}
