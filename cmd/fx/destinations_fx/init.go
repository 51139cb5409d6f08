package destinations_fx

import (
	"fmt"
	"log"
	"os"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"tripchat/internal/api/controllers"
	"tripchat/internal/repositories"
	"tripchat/internal/services"
	"tripchat/pkg/utils"
)

var Module = fx.Provide(
	provideDestinationRepo,
	provideEmbeddingRepo,
	ProvideEmbeddingClient,
	provideDestinationService,
	provideDestinationsController)

func provideDestinationRepo(db *gorm.DB) repositories.DestinationRepository {
	return repositories.NewDestinationRepository(db)
}

func provideEmbeddingRepo(db *gorm.DB) repositories.IDestinationEmbeddingRepository {
	return repositories.NewDestinationEmbeddingRepository(db)
}

// ProvideEmbeddingClient creates an embedding client from environment
// variables. The local hash client needs no key and is the default.
func ProvideEmbeddingClient() (utils.EmbeddingClientInterface, error) {
	provider := getEnvWithDefault("EMBEDDING_PROVIDER", "local")
	model := os.Getenv("EMBEDDING_MODEL")

	apiKey := ""
	if provider == "openai" {
		apiKey = os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			log.Fatal("OPENAI_API_KEY is required when using OpenAI embeddings")
		}
	}

	client, err := utils.NewEmbeddingClient(provider, apiKey, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}
	return client, nil
}

func provideDestinationService(
	destinationRepo repositories.DestinationRepository,
	embeddingRepo repositories.IDestinationEmbeddingRepository,
	embeddingClient utils.EmbeddingClientInterface,
) services.DestinationServiceInterface {
	return services.NewDestinationService(destinationRepo, embeddingRepo, embeddingClient)
}

func provideDestinationsController(destinationService services.DestinationServiceInterface) *controllers.DestinationsController {
	return controllers.NewDestinationsController(destinationService)
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
