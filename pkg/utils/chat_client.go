package utils

import (
	"context"
	"fmt"
	"strings"

	"tripchat/internal/models/response_models"
)

// RecommendationMarker is the literal token the model is instructed to emit
// right before its structured recommendation block. Text after the marker is
// machine-readable and is stripped from the displayed message.
const RecommendationMarker = "FINAL_RECOMMENDATIONS"

// StreamClientInterface opens one streaming model turn for the full
// transcript and delivers chunks in arrival order. The channel is closed
// after a Done chunk; a close without a Done chunk means the transport
// failed mid-stream.
type StreamClientInterface interface {
	StreamChat(ctx context.Context, transcript []response_models.ChatMessage) (<-chan response_models.StreamChunk, error)
}

// CatalogPromptProvider supplies catalog candidates for the system
// instruction so the model only recommends ids that exist.
type CatalogPromptProvider interface {
	PromptCandidates(ctx context.Context, query string, limit int) ([]response_models.CatalogDestination, error)
}

// NewStreamClient builds a stream client for the configured provider.
func NewStreamClient(provider, apiKey, model string, catalog CatalogPromptProvider) (StreamClientInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIChatClient(apiKey, model, catalog), nil
	case "gemini":
		return NewGeminiChatClient(apiKey, model, catalog)
	default:
		return nil, fmt.Errorf("unsupported chat provider: %s. Use 'openai' or 'gemini'", provider)
	}
}

const promptCandidateLimit = 12

// buildSystemInstruction writes the planning instruction, the payload
// convention and the allowed destination list.
func buildSystemInstruction(destinations []response_models.CatalogDestination) string {
	var prompt strings.Builder

	prompt.WriteString("You are a travel-planning assistant. Chat with the user to understand ")
	prompt.WriteString("their preferences, then propose a day-by-day itinerary built from the ")
	prompt.WriteString("destination catalog below.\n\n")

	prompt.WriteString("Catalog (recommend only these, by exact ID):\n")
	for _, d := range destinations {
		fmt.Fprintf(&prompt, "- ID:%s | Name:%s | Location:%s | Rating:%.1f | %s\n",
			d.ID, d.Name, d.Location, d.Rating, truncatePromptText(d.Description, 100))
	}

	prompt.WriteString("\nWhen you are ready to make concrete recommendations, end your reply with:\n")
	prompt.WriteString(RecommendationMarker + "\n")
	prompt.WriteString("```json\n")
	prompt.WriteString(`{"destinations":[{"id":"<catalog id>","reason":"<why it fits>"}],"itinerary":"<day-by-day text>"}`)
	prompt.WriteString("\n```\n\n")

	prompt.WriteString("Itinerary text rules:\n")
	prompt.WriteString("1. One paragraph per day, headed by **Day N:** or **Day N-M:** (use **Ngày N:** if the user writes Vietnamese)\n")
	prompt.WriteString("2. Bullet lines (- or 1.) for each activity\n")
	prompt.WriteString("3. Mention destinations by their catalog names\n")
	prompt.WriteString("4. Everything before the marker is shown to the user; keep it conversational\n")

	return prompt.String()
}

func truncatePromptText(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max-3] + "..."
}
