package services

import (
	"context"
	"strings"
	"sync"

	"tripchat/internal/models/response_models"
	"tripchat/pkg/utils"
)

// SessionEvent is what a turn emits to its consumer: text deltas while
// streaming, then exactly one of Done or Err.
type SessionEvent struct {
	Text           string
	Done           bool
	Err            error
	Recommendation *response_models.ChatRecommendation
}

// ChatSession owns one conversation: the append-only transcript, the
// in-flight accumulation buffer and the current recommendation. Dependencies
// are injected so the session is constructible without HTTP or a database.
//
// One turn at a time: SendMessage while a stream is open returns
// ErrStreamInFlight instead of racing the previous turn.
type ChatSession struct {
	id           string
	streamClient utils.StreamClientInterface
	recommender  RecommendationServiceInterface

	mu             sync.Mutex
	transcript     []response_models.ChatMessage
	partialText    string
	streaming      bool
	enriching      bool
	lastError      string
	recommendation *response_models.ChatRecommendation
}

func NewChatSession(id string, streamClient utils.StreamClientInterface, recommender RecommendationServiceInterface) *ChatSession {
	return &ChatSession{
		id:           id,
		streamClient: streamClient,
		recommender:  recommender,
	}
}

func (s *ChatSession) ID() string {
	return s.id
}

// SendMessage appends the user message, opens the stream and returns the
// event channel for this turn. The full transcript travels with every request;
// the model is stateless per the transport.
func (s *ChatSession) SendMessage(ctx context.Context, text string) (<-chan SessionEvent, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, utils.ErrInvalidInput
	}

	s.mu.Lock()
	if s.streaming {
		s.mu.Unlock()
		return nil, utils.ErrStreamInFlight
	}
	s.streaming = true
	s.lastError = ""
	s.transcript = append(s.transcript, response_models.ChatMessage{
		Role: response_models.RoleUser,
		Text: text,
	})
	history := append([]response_models.ChatMessage(nil), s.transcript...)
	s.mu.Unlock()

	chunks, err := s.streamClient.StreamChat(ctx, history)
	if err != nil {
		s.failTurn(err)
		return nil, utils.ErrStreamFailed
	}

	events := make(chan SessionEvent, 16)
	go s.consumeStream(ctx, chunks, events)
	return events, nil
}

// consumeStream accumulates chunks in arrival order until the terminal chunk,
// then finalizes. A channel that closes before the done chunk is a transport
// failure unless the caller's context was cancelled, which aborts the turn
// without finalizing (a partial buffer is never fed to the extractor).
func (s *ChatSession) consumeStream(ctx context.Context, chunks <-chan response_models.StreamChunk, events chan<- SessionEvent) {
	defer close(events)

	var buffer strings.Builder
	done := false

	for chunk := range chunks {
		if chunk.Text != "" {
			buffer.WriteString(chunk.Text)
			s.mu.Lock()
			s.partialText = buffer.String()
			s.mu.Unlock()

			select {
			case events <- SessionEvent{Text: chunk.Text}:
			case <-ctx.Done():
			}
		}
		if chunk.Done {
			done = true
			break
		}
	}

	if !done {
		if ctx.Err() != nil {
			s.rollbackTurn("")
			return
		}
		s.rollbackTurn(utils.ErrStreamFailed.Error())
		select {
		case events <- SessionEvent{Err: utils.ErrStreamFailed}:
		case <-ctx.Done():
		}
		return
	}

	rec := s.finalize(ctx, buffer.String())
	select {
	case events <- SessionEvent{Done: true, Recommendation: rec}:
	case <-ctx.Done():
	}
}

// finalize runs payload extraction on the complete buffer, enriches if a
// payload was found, appends the assistant message with the payload stripped
// from display text, and publishes the recommendation.
func (s *ChatSession) finalize(ctx context.Context, full string) *response_models.ChatRecommendation {
	payload := ExtractPayload(full)

	display := full
	var rec *response_models.ChatRecommendation
	if payload != nil {
		display = StripPayloadText(full)

		s.mu.Lock()
		s.enriching = true
		s.mu.Unlock()

		enriched := s.recommender.EnrichDestinations(ctx, payload.Destinations)
		rec = &response_models.ChatRecommendation{
			Destinations: enriched,
			Itinerary:    payload.Itinerary,
			Summary:      display,
		}
	}

	s.mu.Lock()
	s.transcript = append(s.transcript, response_models.ChatMessage{
		Role: response_models.RoleModel,
		Text: display,
	})
	s.partialText = ""
	s.streaming = false
	s.enriching = false
	if rec != nil {
		s.recommendation = rec
	}
	s.mu.Unlock()

	return rec
}

// failTurn handles a stream that could not be opened.
func (s *ChatSession) failTurn(err error) {
	s.rollbackTurn(err.Error())
}

// rollbackTurn retracts the optimistically-appended user message so the
// transcript doesn't keep a dangling unanswered question. The caller decides
// whether to retry.
func (s *ChatSession) rollbackTurn(errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.transcript); n > 0 && s.transcript[n-1].Role == response_models.RoleUser {
		s.transcript = s.transcript[:n-1]
	}
	s.partialText = ""
	s.streaming = false
	s.enriching = false
	s.lastError = errMsg
}

// State returns a point-in-time snapshot of the observable session state.
func (s *ChatSession) State() response_models.ChatSessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return response_models.ChatSessionState{
		SessionID:          s.id,
		Transcript:         append([]response_models.ChatMessage(nil), s.transcript...),
		CurrentPartialText: s.partialText,
		IsStreaming:        s.streaming,
		IsEnriching:        s.enriching,
		Error:              s.lastError,
		Recommendation:     s.recommendation,
	}
}

// DayCards projects the current recommendation into day records. The
// itinerary text is the source of truth; the projection is recomputed on
// every call.
func (s *ChatSession) DayCards() ([]response_models.DayActivity, error) {
	s.mu.Lock()
	rec := s.recommendation
	s.mu.Unlock()

	if rec == nil {
		return nil, utils.ErrNoRecommendation
	}
	return ParseItinerary(rec.Itinerary, rec.Destinations), nil
}
