package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/go-chi/chi/v5"
)

type ArticleStore interface {
	GetAllArticles(ctx context.Context) ([]*domain.Article, error)
	GetArticle(ctx context.Context, id string) (*domain.Article, error)
	GetArticlesByCategory(ctx context.Context, category string) ([]*domain.Article, error)
	GetFeaturedArticles(ctx context.Context) ([]*domain.Article, error)
}

type ArticleHandler struct {
	store   ArticleStore
	timeout time.Duration
}

func NewArticleHandler(store ArticleStore, timeout time.Duration) *ArticleHandler {
	return &ArticleHandler{
		store:   store,
		timeout: timeout,
	}
}

func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	query := r.URL.Query()
	var (
		articles []*domain.Article
		err      error
	)
	switch category := query.Get("category"); {
	case query.Get("featured") == "true":
		articles, err = h.store.GetFeaturedArticles(ctx)
	case category != "" && category != "all":
		articles, err = h.store.GetArticlesByCategory(ctx, category)
	default:
		articles, err = h.store.GetAllArticles(ctx)
	}
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if articles == nil {
		articles = []*domain.Article{}
	}

	respondJSON(w, http.StatusOK, articles)
}

func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	article, err := h.store.GetArticle(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if article == nil {
		respondError(w, http.StatusNotFound, "not_found", "article not found")
		return
	}

	respondJSON(w, http.StatusOK, article)
}
