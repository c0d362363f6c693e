package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Session   SessionConfig
	Ingestion IngestionConfig
	Retrieval RetrievalConfig
	Ai        AIConfig
	Keys      APIKeys
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
	MaxDocuments  int
}

type IngestionConfig struct {
	MaxChunkChars   int
	MaxChunksPerDoc int
	FetchTimeout    time.Duration
	MaxFetchBytes   int64
}

type RetrievalConfig struct {
	TopK     int
	MinScore float64
}

type AIConfig struct {
	EmbeddingProvider string // "gemini", "ollama" or "jina"
	EmbeddingDim      int    // 0 = infer from the first response
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "gemini" or "ollama"
	LLMModel          string // e.g. "gemini-2.0-flash-lite", "llama3"
}

type APIKeys struct {
	GoogleGemini string
	Jina         string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "7860"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Session: SessionConfig{
			TTL:           time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 15)) * time.Minute,
			SweepInterval: time.Duration(getEnvAsInt("SESSION_SWEEP_INTERVAL_MINUTES", 5)) * time.Minute,
			MaxDocuments:  getEnvAsInt("MAX_DOCS_PER_SESSION", 20),
		},
		Ingestion: IngestionConfig{
			MaxChunkChars:   getEnvAsInt("MAX_CHUNK_CHARS", 500),
			MaxChunksPerDoc: getEnvAsInt("MAX_CHUNKS_PER_DOC", 30),
			FetchTimeout:    time.Duration(getEnvAsInt("FETCH_TIMEOUT_SECONDS", 15)) * time.Second,
			MaxFetchBytes:   int64(getEnvAsInt("MAX_FETCH_BYTES", 10*1024*1024)),
		},
		Retrieval: RetrievalConfig{
			TopK:     getEnvAsInt("TOP_K", 5),
			MinScore: getEnvAsFloat("MIN_SCORE", 0.5),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingDim:      getEnvAsInt("EMBEDDING_DIM", 0),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-2.0-flash-lite"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
