package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"tripchat/internal/models/response_models"
)

// OpenAIChatClient implements StreamClientInterface via chat-completion
// streaming.
type OpenAIChatClient struct {
	client  *openai.Client
	model   string
	catalog CatalogPromptProvider
}

func NewOpenAIChatClient(apiKey, model string, catalog CatalogPromptProvider) *OpenAIChatClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIChatClient{
		client:  openai.NewClient(apiKey),
		model:   model,
		catalog: catalog,
	}
}

func (c *OpenAIChatClient) StreamChat(ctx context.Context, transcript []response_models.ChatMessage) (<-chan response_models.StreamChunk, error) {
	if len(transcript) == 0 {
		return nil, fmt.Errorf("empty transcript")
	}

	last := transcript[len(transcript)-1]

	candidates, err := c.catalog.PromptCandidates(ctx, last.Text, promptCandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("catalog candidates: %w", err)
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(transcript)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: buildSystemInstruction(candidates),
	})
	for _, msg := range transcript {
		role := openai.ChatMessageRoleUser
		if msg.Role == response_models.RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Text,
		})
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("openai stream: %w", err)
	}

	out := make(chan response_models.StreamChunk)
	go func() {
		defer close(out)
		defer stream.Close()
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				select {
				case out <- response_models.StreamChunk{Done: true}:
				case <-ctx.Done():
				}
				return
			}
			if err != nil {
				log.Printf("openai stream error: %v", err)
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			select {
			case out <- response_models.StreamChunk{Text: delta}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
