package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, ErrDestinationNotFound):
		RespondError(c, http.StatusNotFound, "Destination not found")
	case errors.Is(err, ErrTripNotFound):
		RespondError(c, http.StatusNotFound, "Trip not found")
	case errors.Is(err, ErrSessionNotFound):
		RespondError(c, http.StatusNotFound, "Chat session not found")
	case errors.Is(err, ErrStreamInFlight):
		RespondError(c, http.StatusConflict, "A message is already streaming for this session")
	case errors.Is(err, ErrNoRecommendation):
		RespondError(c, http.StatusNotFound, "No recommendation available yet")
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusConflict, "Email already registered")
	case errors.Is(err, ErrStreamFailed), errors.Is(err, ErrUnexpectedBehaviorOfAI):
		log.Printf("Upstream AI error: %v", err)
		RespondError(c, http.StatusBadGateway, "Assistant is temporarily unavailable")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
