package bootstrap

import (
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"docqa-be/internal/config"
	"docqa-be/internal/controller"
	"docqa-be/internal/pkg/logger"
	"docqa-be/internal/service"
	"docqa-be/pkg/embedding"
	"docqa-be/pkg/embedding/jina"
	"docqa-be/pkg/events"
	"docqa-be/pkg/extractor"
	"docqa-be/pkg/llm/factory"
	"docqa-be/pkg/rag/answer"
	"docqa-be/pkg/rag/retrieval"
	"docqa-be/pkg/store"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	HealthController  controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	publisher := events.NewPublisher(pubSub)

	// Embedding Provider based on Config
	var embeddingProvider embedding.Provider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	case "jina":
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	default:
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}
	gateway := embedding.NewGateway(embeddingProvider, cfg.Ai.EmbeddingDim)

	// LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-Memory Session Storage
	sessionStore := store.NewSessionStore(cfg.Session.TTL, cfg.Session.SweepInterval, cfg.Session.MaxDocuments)
	sessionStore.SetOnExpired(func(sessionID string) {
		if err := publisher.Publish(events.SessionExpired(sessionID)); err != nil {
			sysLogger.Warn("Store", "Failed to publish expiry event", map[string]interface{}{"error": err.Error()})
		}
	})

	fetcher := extractor.NewFetcher(cfg.Ingestion.FetchTimeout, cfg.Ingestion.MaxFetchBytes)
	engine := retrieval.NewEngine(cfg.Retrieval.TopK)
	assembler := answer.NewAssembler(llmProvider, cfg.Retrieval.MinScore)

	// Services
	sessionService := service.NewSessionService(sessionStore, publisher, sysLogger)
	ingestService := service.NewIngestService(sessionStore, gateway, fetcher, publisher, sysLogger, cfg.Ingestion)
	queryService := service.NewQueryService(sessionStore, gateway, engine, assembler, sysLogger)
	consumerService := service.NewConsumerService(pubSub, sysLogger)

	return &Container{
		SessionController: controller.NewSessionController(sessionService, ingestService, queryService),
		HealthController:  controller.NewHealthController(sessionService),
		ConsumerService:   consumerService,
		Logger:            sysLogger,
	}
}
