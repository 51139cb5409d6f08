package utils

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"tripchat/internal/models/response_models"
)

// GeminiChatClient implements StreamClientInterface using Google's Gemini
// models via SendMessageStream.
type GeminiChatClient struct {
	client  *genai.Client
	model   string
	catalog CatalogPromptProvider
}

func NewGeminiChatClient(apiKey, model string, catalog CatalogPromptProvider) (*GeminiChatClient, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiChatClient{
		client:  client,
		model:   model,
		catalog: catalog,
	}, nil
}

func (c *GeminiChatClient) StreamChat(ctx context.Context, transcript []response_models.ChatMessage) (<-chan response_models.StreamChunk, error) {
	if len(transcript) == 0 {
		return nil, fmt.Errorf("empty transcript")
	}

	last := transcript[len(transcript)-1]

	candidates, err := c.catalog.PromptCandidates(ctx, last.Text, promptCandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("catalog candidates: %w", err)
	}

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.4)
	model.SetTopP(0.8)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(buildSystemInstruction(candidates))},
	}

	session := model.StartChat()
	for _, msg := range transcript[:len(transcript)-1] {
		session.History = append(session.History, &genai.Content{
			Role:  msg.Role,
			Parts: []genai.Part{genai.Text(msg.Text)},
		})
	}

	iter := session.SendMessageStream(ctx, genai.Text(last.Text))

	out := make(chan response_models.StreamChunk)
	go func() {
		defer close(out)
		for {
			resp, err := iter.Next()
			if errors.Is(err, iterator.Done) {
				select {
				case out <- response_models.StreamChunk{Done: true}:
				case <-ctx.Done():
				}
				return
			}
			if err != nil {
				// Closing without a done chunk signals transport failure.
				log.Printf("gemini stream error: %v", err)
				return
			}
			for _, cand := range resp.Candidates {
				if cand.Content == nil {
					continue
				}
				for _, part := range cand.Content.Parts {
					text, ok := part.(genai.Text)
					if !ok || text == "" {
						continue
					}
					select {
					case out <- response_models.StreamChunk{Text: string(text)}:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return out, nil
}

func (c *GeminiChatClient) Close() error {
	return c.client.Close()
}
