package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CMC_API_KEY", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("LLM_BACKEND", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("MARKET_REFRESH_SECS", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.LLMBackend != "openai" || cfg.OpenAIModel != "gpt-4o" || cfg.GeminiModel != "gemini-2.0-flash" {
		t.Fatalf("unexpected LLM defaults: %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected CORS default: %+v", cfg.CORSAllowedOrigins)
	}
	if cfg.MarketRefreshSecs != 300 {
		t.Fatalf("expected default refresh secs 300, got %d", cfg.MarketRefreshSecs)
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("CMC_API_KEY", "key")
	t.Setenv("CMC_BASE_URL", "https://sandbox-api.coinmarketcap.com/v1")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis:6379")
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_BACKEND", "gemini")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("MARKET_REFRESH_SECS", "120")

	cfg := Load()
	if cfg.CMCAPIKey != "key" || cfg.DatabaseURL != "postgres://example" || cfg.RedisURL != "redis:6379" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.CMCBaseURL != "https://sandbox-api.coinmarketcap.com/v1" {
		t.Fatalf("unexpected base url: %s", cfg.CMCBaseURL)
	}
	if cfg.Port != "9090" || cfg.LLMBackend != "gemini" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected CORS origins: %+v", cfg.CORSAllowedOrigins)
	}
	if cfg.MarketRefreshSecs != 120 {
		t.Fatalf("expected refresh secs 120, got %d", cfg.MarketRefreshSecs)
	}

	t.Setenv("MARKET_REFRESH_SECS", "bad")
	t.Setenv("LLM_BACKEND", "cohere")
	cfg = Load()
	if cfg.MarketRefreshSecs != 300 {
		t.Fatalf("invalid refresh secs should fall back to default, got %d", cfg.MarketRefreshSecs)
	}
	if cfg.LLMBackend != "openai" {
		t.Fatalf("unsupported backend should fall back to openai, got %s", cfg.LLMBackend)
	}
}
