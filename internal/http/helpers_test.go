package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fjod/dhnaturally/internal/cache"
	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/fjod/dhnaturally/internal/notify"
	"github.com/fjod/dhnaturally/internal/service"
	"github.com/fjod/dhnaturally/internal/storage"
	"github.com/fjod/dhnaturally/internal/storage/storagetest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

const testTimeout = 5 * time.Second

// withURLParam attaches a chi route parameter to the request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

type testEnv struct {
	store   *storage.MemoryStore
	carts   *service.CartService
	router  http.Handler
	product *domain.Product
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := storage.NewMemoryStore()
	product, err := store.CreateProduct(context.Background(), storagetest.SampleProduct("immunity", true))
	require.NoError(t, err)

	carts := service.NewCartService(store, cache.Nop{})
	contacts := service.NewContactService(store, notify.Nop{})
	router := NewRouter(Dependencies{
		Products: store,
		Articles: store,
		Carts:    carts,
		Contacts: contacts,
	}, Options{
		RequestTimeout:     testTimeout,
		MaxRequestBodySize: 1 << 10,
		DefaultLanguage:    domain.LangHebrew,
	})

	return &testEnv{store: store, carts: carts, router: router, product: product}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
