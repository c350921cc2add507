package docs

import (
	"strings"
	"testing"
)

func TestSwaggerInfoRegistered(t *testing.T) {
	if SwaggerInfo == nil {
		t.Fatal("swagger info not initialized")
	}
	if SwaggerInfo.Title != "CoinSight API" {
		t.Fatalf("unexpected title %q", SwaggerInfo.Title)
	}
}

func TestSwaggerTemplateCoversRoutes(t *testing.T) {
	for _, path := range []string{
		"/api/crypto/list",
		"/api/market/overview",
		"/api/analysis/combined/{cryptoId}",
		"/health",
	} {
		if !strings.Contains(docTemplate, `"`+path+`"`) {
			t.Errorf("swagger template missing path %s", path)
		}
	}
}
