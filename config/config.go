package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port int
	Host string
	Env  string // "development" or "production"

	// Data directory (docs context, database)
	DataDir string

	// Database
	DatabasePath string

	// Static frontend build directory
	WebDist string

	// Docs context sources
	CLDocsPath    string
	DezzyDocsPath string
	DocsFolder    string

	// OpenAI (code generation + summaries)
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Gemini (Dezzy chat assistant)
	GeminiAPIKey        string
	GeminiModel         string
	GeminiFallbackModel string
	DezzyInstructions   string

	// Meilisearch (scraped docs search)
	MeiliHost   string
	MeiliAPIKey string
	MeiliIndex  string
}

var (
	cfg  *Config
	once sync.Once
)

// Get returns the global configuration (singleton)
func Get() *Config {
	once.Do(func() {
		// Best effort: the original tool read a local .env the same way
		_ = godotenv.Load()
		cfg = load()
	})
	return cfg
}

// load reads configuration from environment variables
func load() *Config {
	dataDir := getEnv("CL_DATA_DIR", "./data")

	return &Config{
		// Server
		Port: getEnvInt("PORT", 3000),
		Host: getEnv("HOST", "0.0.0.0"),
		Env:  getEnv("ENV", "development"),

		// Data
		DataDir:      dataDir,
		DatabasePath: filepath.Join(dataDir, "app", "cl-studio", "database.sqlite"),
		WebDist:      getEnv("CL_WEB_DIST", "web/dist"),

		// Docs context
		CLDocsPath:    filepath.Join(dataDir, "cl-docs.md"),
		DezzyDocsPath: filepath.Join(dataDir, "dezzy-docs.md"),
		DocsFolder:    filepath.Join(dataDir, "Docs"),

		// OpenAI
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		// Gemini
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiFallbackModel: getEnv("GEMINI_FALLBACK_MODEL", "gemini-2.5-flash-lite"),
		DezzyInstructions: getEnv("GEMINI_INSTRUCTIONS",
			"You are Dezzy, an expert in Desmos Activity Builder Computation Layer (CL). "+
				"Output valid CL code when asked; you can add brief comments. "+
				"You can use code the user has saved in slides to give context-aware help."),

		// Meilisearch
		MeiliHost:   getEnv("MEILI_HOST", ""),
		MeiliAPIKey: getEnv("MEILI_API_KEY", ""),
		MeiliIndex:  getEnv("MEILI_INDEX", "clstudio_docs"),
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
