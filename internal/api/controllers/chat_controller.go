package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripchat/internal/models/request_models"
	"tripchat/internal/models/response_models"
	"tripchat/internal/services"
	"tripchat/pkg/utils"
)

type ChatController struct {
	chatService services.ChatServiceInterface
}

func NewChatController(chatService services.ChatServiceInterface) *ChatController {
	return &ChatController{
		chatService: chatService,
	}
}

type chatStreamEvent struct {
	SessionID      string                              `json:"session_id,omitempty"`
	Text           string                              `json:"text,omitempty"`
	Done           bool                                `json:"done,omitempty"`
	Error          string                              `json:"error,omitempty"`
	Recommendation *response_models.ChatRecommendation `json:"recommendation,omitempty"`
}

// StreamMessageHandler runs one chat turn and streams the assistant's reply
// as newline-delimited SSE events. The request context doubles as the abort
// signal: a dropped client cancels the turn without finalizing it.
func (cc *ChatController) StreamMessageHandler(c *gin.Context) {
	var req request_models.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	sessionID, events, err := cc.chatService.SendMessage(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Session-ID", sessionID)
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	writeEvent(c, chatStreamEvent{SessionID: sessionID})

	for event := range events {
		switch {
		case event.Err != nil:
			writeEvent(c, chatStreamEvent{Done: true, Error: event.Err.Error()})
		case event.Done:
			writeEvent(c, chatStreamEvent{Done: true, Recommendation: event.Recommendation})
		default:
			writeEvent(c, chatStreamEvent{Text: event.Text})
		}
	}
}

func writeEvent(c *gin.Context, event chatStreamEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	c.Writer.WriteString("data: " + string(payload) + "\n\n")
	c.Writer.Flush()
}

// GetSessionHandler returns the observable session state between turns.
func (cc *ChatController) GetSessionHandler(c *gin.Context) {
	state, err := cc.chatService.SessionState(c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, state, "Session state")
}

// GetDayCardsHandler projects the session's current recommendation into
// day-by-day cards.
func (cc *ChatController) GetDayCardsHandler(c *gin.Context) {
	cards, err := cc.chatService.DayCards(c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, cards, "Day cards")
}
