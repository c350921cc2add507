package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port               string
	CORSAllowedOrigins []string

	CMCAPIKey  string
	CMCBaseURL string

	LLMBackend  string
	OpenAIKey   string
	OpenAIModel string
	GeminiKey   string
	GeminiModel string

	RedisURL    string
	DatabaseURL string

	TelegramBotToken string

	MarketRefreshSecs int
}

func Load() *Config {
	cfg := &Config{
		CMCAPIKey:        os.Getenv("CMC_API_KEY"),
		CMCBaseURL:       strings.TrimSpace(os.Getenv("CMC_BASE_URL")),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		GeminiKey:        os.Getenv("GEMINI_API_KEY"),
		RedisURL:         os.Getenv("REDIS_URL"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if cfg.CMCAPIKey == "" {
		log.Println("Warning: CMC_API_KEY not set, market data requests will fail")
	}
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set, analysis history disabled")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, using in-memory cache")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}

	cfg.Port = strings.TrimSpace(os.Getenv("PORT"))
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if v := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
			}
		}
	} else {
		cfg.CORSAllowedOrigins = []string{"http://localhost:3000"}
	}

	cfg.LLMBackend = strings.ToLower(strings.TrimSpace(os.Getenv("LLM_BACKEND")))
	if cfg.LLMBackend == "" {
		cfg.LLMBackend = "openai"
	}
	if cfg.LLMBackend != "openai" && cfg.LLMBackend != "gemini" {
		log.Printf("Warning: unsupported LLM_BACKEND=%q, defaulting to openai", cfg.LLMBackend)
		cfg.LLMBackend = "openai"
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o"
	}

	cfg.GeminiModel = strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.0-flash"
	}

	cfg.MarketRefreshSecs = 300
	if v := strings.TrimSpace(os.Getenv("MARKET_REFRESH_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MarketRefreshSecs = n
		}
	}

	return cfg
}
