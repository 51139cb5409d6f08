package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"tripchat/internal/models/response_models"
	"tripchat/pkg/utils"
)

type ChatServiceInterface interface {
	SendMessage(ctx context.Context, sessionID, message string) (string, <-chan SessionEvent, error)
	SessionState(sessionID string) (response_models.ChatSessionState, error)
	DayCards(sessionID string) ([]response_models.DayActivity, error)
}

// ChatService is the session registry. Each session owns its own transcript,
// buffer and recommendation; nothing is shared between sessions.
type ChatService struct {
	streamClient utils.StreamClientInterface
	recommender  RecommendationServiceInterface

	mu       sync.RWMutex
	sessions map[string]*ChatSession
}

func NewChatService(streamClient utils.StreamClientInterface, recommender RecommendationServiceInterface) ChatServiceInterface {
	return &ChatService{
		streamClient: streamClient,
		recommender:  recommender,
		sessions:     make(map[string]*ChatSession),
	}
}

// SendMessage routes to an existing session or creates one when sessionID is
// empty, and returns the (possibly new) session id with the turn's events.
func (c *ChatService) SendMessage(ctx context.Context, sessionID, message string) (string, <-chan SessionEvent, error) {
	session := c.getOrCreate(sessionID)

	events, err := session.SendMessage(ctx, message)
	if err != nil {
		return session.ID(), nil, err
	}
	return session.ID(), events, nil
}

func (c *ChatService) SessionState(sessionID string) (response_models.ChatSessionState, error) {
	session := c.get(sessionID)
	if session == nil {
		return response_models.ChatSessionState{}, utils.ErrSessionNotFound
	}
	return session.State(), nil
}

func (c *ChatService) DayCards(sessionID string) ([]response_models.DayActivity, error) {
	session := c.get(sessionID)
	if session == nil {
		return nil, utils.ErrSessionNotFound
	}
	return session.DayCards()
}

func (c *ChatService) get(sessionID string) *ChatSession {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessions[sessionID]
}

func (c *ChatService) getOrCreate(sessionID string) *ChatSession {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sessionID != "" {
		if session, ok := c.sessions[sessionID]; ok {
			return session
		}
	} else {
		sessionID = uuid.New().String()
	}

	session := NewChatSession(sessionID, c.streamClient, c.recommender)
	c.sessions[sessionID] = session
	return session
}
