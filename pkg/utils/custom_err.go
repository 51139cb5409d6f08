package utils

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrDatabaseError          = errors.New("database error")
	ErrDestinationNotFound    = errors.New("destination not found")
	ErrTripNotFound           = errors.New("trip not found")
	ErrSessionNotFound        = errors.New("chat session not found")
	ErrStreamInFlight         = errors.New("a message is already streaming for this session")
	ErrStreamFailed           = errors.New("streaming connection failed")
	ErrNoRecommendation       = errors.New("no recommendation available")
	ErrAccountNotFound        = errors.New("account not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrEmailAlreadyExists     = errors.New("email already registered")
	ErrUnexpectedBehaviorOfAI = errors.New("unexpected model behavior")
)
