package request_models

type ChatMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}
