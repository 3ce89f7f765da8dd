package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL    string
	LogLevel       string
	Debug          bool
	ServiceName    string
	Environment    string
	Hostname       string
	ServerPort     string
	MaxConns       int
	AllowedOrigins []string

	// Provider credentials. An empty value disables the provider at
	// construction time rather than failing at request time.
	GeminiAPIKeys []string
	GeminiModel   string
	GroqAPIKey    string
	GroqModel     string

	ProviderTimeout time.Duration

	// Deployment-wide policy phrases that force escalation to a human.
	EscalationTriggers []string

	// Prompt assembly bounds.
	HistoryWindow int
	CatalogLimit  int

	// Knowledge retrieval (optional; TopK<=0 disables).
	KnowledgeTopK int

	// Object storage for customer image uploads.
	StorageURL    string
	StorageKey    string
	StorageBucket string
}

func LoadConfig() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "support-orchestrator"
	}

	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname = "support-orchestrator"
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	allowedOrigins := []string{"*"}
	if ao := os.Getenv("ALLOWED_ORIGINS"); ao != "" {
		allowedOrigins = splitAndTrim(ao)
	}

	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = "gemini-2.0-flash-lite"
	}

	groqModel := os.Getenv("GROQ_MODEL")
	if groqModel == "" {
		groqModel = "llama-3.1-8b-instant"
	}

	storageBucket := os.Getenv("STORAGE_BUCKET")
	if storageBucket == "" {
		storageBucket = "chat-images"
	}

	return &Config{
		DatabaseURL:        databaseURL,
		LogLevel:           logLevel,
		Debug:              os.Getenv("DEBUG") == "true",
		ServiceName:        serviceName,
		Environment:        environment,
		Hostname:           hostname,
		ServerPort:         serverPort,
		MaxConns:           envInt("DB_MAX_CONNS", 10),
		AllowedOrigins:     allowedOrigins,
		GeminiAPIKeys:      splitAndTrim(os.Getenv("GEMINI_API_KEYS")),
		GeminiModel:        geminiModel,
		GroqAPIKey:         os.Getenv("GROQ_API_KEY"),
		GroqModel:          groqModel,
		ProviderTimeout:    time.Duration(envInt("PROVIDER_TIMEOUT_MS", 10000)) * time.Millisecond,
		EscalationTriggers: splitAndTrim(os.Getenv("ESCALATION_TRIGGERS")),
		HistoryWindow:      envInt("HISTORY_WINDOW", 10),
		CatalogLimit:       envInt("CATALOG_LIMIT", 20),
		KnowledgeTopK:      envInt("KNOWLEDGE_TOP_K", 4),
		StorageURL:         os.Getenv("STORAGE_URL"),
		StorageKey:         os.Getenv("STORAGE_KEY"),
		StorageBucket:      storageBucket,
	}, nil
}

func envInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
