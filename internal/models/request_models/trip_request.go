package request_models

type SaveTripRequest struct {
	Title     string `json:"title" binding:"required,max=120"`
	Summary   string `json:"summary"`
	Itinerary string `json:"itinerary" binding:"required"`
	Payload   string `json:"payload"`
}
