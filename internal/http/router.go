package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Dependencies struct {
	Products ProductStore
	Articles ArticleStore
	Carts    CartService
	Contacts ContactService
}

type Options struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	DefaultLanguage    string
}

// NewRouter wires the storefront API.
func NewRouter(deps Dependencies, opts Options) http.Handler {
	products := NewProductHandler(deps.Products, opts.RequestTimeout, opts.DefaultLanguage)
	articles := NewArticleHandler(deps.Articles, opts.RequestTimeout)
	carts := NewCartHandler(deps.Carts, deps.Products, opts.RequestTimeout)
	contacts := NewContactHandler(deps.Contacts, opts.RequestTimeout)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(MaxBodySize(opts.MaxRequestBodySize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Get("/{id}", products.Get)
		})
		r.Route("/articles", func(r chi.Router) {
			r.Get("/", articles.List)
			r.Get("/{id}", articles.Get)
		})
		r.Post("/contact", contacts.Submit)
		r.Route("/cart", func(r chi.Router) {
			r.Post("/", carts.AddItem)
			r.Get("/{id}", carts.GetCart)
			r.Patch("/{id}", carts.UpdateQuantity)
			r.Delete("/{id}", carts.RemoveItem)
			r.Delete("/session/{id}", carts.ClearCart)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
