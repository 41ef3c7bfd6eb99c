package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestLanguage(t *testing.T) {
	tests := []struct {
		name   string
		target string
		accept string
		want   string
	}{
		{"default", "/", "", domain.LangHebrew},
		{"query param", "/?lang=en", "he", domain.LangEnglish},
		{"unknown query falls through", "/?lang=fr", "en-GB", domain.LangEnglish},
		{"accept hebrew", "/", "he-IL,he;q=0.9", domain.LangHebrew},
		{"accept english", "/", "en-US,en;q=0.9", domain.LangEnglish},
		{"unsupported", "/", "fr-FR", domain.LangHebrew},
		{"garbage header", "/", ";;;", domain.LangHebrew},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}
			assert.Equal(t, tt.want, requestLanguage(r, domain.LangHebrew))
		})
	}
}
