package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripchat/internal/models/request_models"
	"tripchat/internal/services"
	"tripchat/pkg/utils"
)

type TripsController struct {
	tripService services.TripServiceInterface
}

func NewTripsController(tripService services.TripServiceInterface) *TripsController {
	return &TripsController{
		tripService: tripService,
	}
}

func accountIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString("user_id")
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid account id in token")
		return uuid.Nil, false
	}
	return id, true
}

func (t *TripsController) SaveTripHandler(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}

	var req request_models.SaveTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	tripID, err := t.tripService.SaveTrip(c.Request.Context(), accountID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"trip_id": tripID}, "Trip saved")
}

func (t *TripsController) ListTripsHandler(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}

	trips, err := t.tripService.ListTrips(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trips, "Trips fetched")
}

func (t *TripsController) GetTripHandler(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}

	trip, err := t.tripService.GetTrip(c.Request.Context(), accountID, c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trip, "Trip fetched")
}

func (t *TripsController) DeleteTripHandler(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}

	if err := t.tripService.DeleteTrip(c.Request.Context(), accountID, c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Trip deleted")
}
