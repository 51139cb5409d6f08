package response_models

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatMessage is one entry in a session transcript. The transcript is
// append-only; messages are never edited once appended.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// StreamChunk is the transient wire unit of the streaming chat endpoint.
// A chunk with Done set ends the turn; its Text, if any, still counts.
type StreamChunk struct {
	Text string `json:"text,omitempty"`
	Done bool   `json:"done,omitempty"`
}

// RecommendedDestinationRef is the raw id/reason pair extracted from the
// model's structured payload, before it is joined against the catalog.
type RecommendedDestinationRef struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// EnrichedDestination exists only for ids present in both the model payload
// and the catalog; unmatched ids are dropped during enrichment.
type EnrichedDestination struct {
	CatalogDestination
	Reason string `json:"reason"`
}

// ChatRecommendation is the terminal output of a turn that carried a
// structured payload. A later recommendation replaces the previous one.
type ChatRecommendation struct {
	Destinations []EnrichedDestination `json:"destinations"`
	Itinerary    string                `json:"itinerary"`
	Summary      string                `json:"summary"`
}

// DayActivity is one rendered day card, projected on demand from the
// recommendation's itinerary text.
type DayActivity struct {
	Day          int                   `json:"day"`
	Date         string                `json:"date,omitempty"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Destinations []EnrichedDestination `json:"destinations"`
	Activities   []string              `json:"activities"`
}

// ChatSessionState is the observable state a session exposes to the view
// layer between turns.
type ChatSessionState struct {
	SessionID          string              `json:"session_id"`
	Transcript         []ChatMessage       `json:"transcript"`
	CurrentPartialText string              `json:"current_partial_text"`
	IsStreaming        bool                `json:"is_streaming"`
	IsEnriching        bool                `json:"is_enriching"`
	Error              string              `json:"error,omitempty"`
	Recommendation     *ChatRecommendation `json:"recommendation,omitempty"`
}
