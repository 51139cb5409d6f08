package chat_fx

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/fx"

	"tripchat/internal/api/controllers"
	"tripchat/internal/services"
	"tripchat/pkg/memcache"
	"tripchat/pkg/utils"
)

var Module = fx.Provide(
	ProvideStreamClient,
	provideCatalogCache,
	provideRecommendationService,
	provideChatService,
	provideChatController)

// ProvideStreamClient creates the streaming chat client from environment
// variables. Gemini is the default provider.
func ProvideStreamClient(destinationService services.DestinationServiceInterface) (utils.StreamClientInterface, error) {
	provider := getEnvWithDefault("CHAT_PROVIDER", "gemini")

	var apiKey, model string
	switch strings.ToLower(provider) {
	case "openai":
		apiKey = os.Getenv("OPENAI_API_KEY")
		model = os.Getenv("OPENAI_CHAT_MODEL")
		if apiKey == "" {
			log.Fatal("OPENAI_API_KEY is required when using the OpenAI provider")
		}
	case "gemini":
		apiKey = os.Getenv("GEMINI_API_KEY")
		model = getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
		if apiKey == "" {
			log.Fatal("GEMINI_API_KEY is required when using the Gemini provider")
		}
	}

	log.Printf("Initializing %s chat client with model: %s", provider, model)

	client, err := utils.NewStreamClient(provider, apiKey, model, destinationService)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream client: %w", err)
	}
	return client, nil
}

func provideCatalogCache() *memcache.CatalogCache {
	ttl := 5 * time.Minute
	if raw := os.Getenv("CATALOG_CACHE_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			ttl = parsed
		}
	}
	return memcache.NewCatalogCache(ttl)
}

func provideRecommendationService(
	destinationService services.DestinationServiceInterface,
	cache *memcache.CatalogCache,
) services.RecommendationServiceInterface {
	return services.NewRecommendationService(destinationService, cache)
}

func provideChatService(
	streamClient utils.StreamClientInterface,
	recommender services.RecommendationServiceInterface,
) services.ChatServiceInterface {
	return services.NewChatService(streamClient, recommender)
}

func provideChatController(chatService services.ChatServiceInterface) *controllers.ChatController {
	return controllers.NewChatController(chatService)
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
