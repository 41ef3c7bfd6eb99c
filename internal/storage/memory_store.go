package storage

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/google/uuid"
)

// table keeps rows by id and remembers insertion order for listings.
type table[T any] struct {
	rows  map[string]*T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]*T)}
}

func (t *table[T]) put(id string, row *T) {
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table[T]) delete(id string) bool {
	if _, exists := t.rows[id]; !exists {
		return false
	}
	delete(t.rows, id)
	t.order = slices.DeleteFunc(t.order, func(v string) bool { return v == id })
	return true
}

// each visits rows in insertion order until fn returns false.
func (t *table[T]) each(fn func(*T) bool) {
	for _, id := range t.order {
		if !fn(t.rows[id]) {
			return
		}
	}
}

// MemoryStore implements Storage with in-memory maps. All data is lost
// when the process exits.
type MemoryStore struct {
	mu                 sync.RWMutex
	users              *table[domain.User]
	products           *table[domain.Product]
	articles           *table[domain.Article]
	contactSubmissions *table[domain.ContactSubmission]
	cartItems          *table[domain.CartItem]

	now func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:              newTable[domain.User](),
		products:           newTable[domain.Product](),
		articles:           newTable[domain.Article](),
		contactSubmissions: newTable[domain.ContactSubmission](),
		cartItems:          newTable[domain.CartItem](),
		now:                time.Now,
	}
}

func newID() string {
	return uuid.New().String()
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.users.rows[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.findUser(username), nil
}

func (s *MemoryStore) findUser(username string) *domain.User {
	var found *domain.User
	s.users.each(func(u *domain.User) bool {
		if u.Username == username {
			cp := *u
			found = &cp
			return false
		}
		return true
	})
	return found
}

func (s *MemoryStore) CreateUser(_ context.Context, user domain.NewUser) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findUser(user.Username) != nil {
		return nil, ErrUsernameTaken
	}

	u := &domain.User{ID: newID(), Username: user.Username, Password: user.Password}
	s.users.put(u.ID, u)
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) GetAllProducts(context.Context) ([]*domain.Product, error) {
	return s.filterProducts(func(*domain.Product) bool { return true }), nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.products.rows[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) GetProductsByCategory(_ context.Context, category string) ([]*domain.Product, error) {
	return s.filterProducts(func(p *domain.Product) bool { return p.Category == category }), nil
}

func (s *MemoryStore) GetFeaturedProducts(context.Context) ([]*domain.Product, error) {
	return s.filterProducts(func(p *domain.Product) bool { return p.Featured }), nil
}

func (s *MemoryStore) filterProducts(keep func(*domain.Product) bool) []*domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Product, 0)
	s.products.each(func(p *domain.Product) bool {
		if keep(p) {
			cp := *p
			result = append(result, &cp)
		}
		return true
	})
	return result
}

func (s *MemoryStore) CreateProduct(_ context.Context, product domain.NewProduct) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := product.Build(newID(), s.now())
	s.products.put(p.ID, p)
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) GetAllArticles(context.Context) ([]*domain.Article, error) {
	return s.filterArticles(func(*domain.Article) bool { return true }), nil
}

func (s *MemoryStore) GetArticle(_ context.Context, id string) (*domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.articles.rows[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) GetArticlesByCategory(_ context.Context, category string) ([]*domain.Article, error) {
	return s.filterArticles(func(a *domain.Article) bool { return a.Category == category }), nil
}

func (s *MemoryStore) GetFeaturedArticles(context.Context) ([]*domain.Article, error) {
	return s.filterArticles(func(a *domain.Article) bool { return a.Featured }), nil
}

func (s *MemoryStore) filterArticles(keep func(*domain.Article) bool) []*domain.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Article, 0)
	s.articles.each(func(a *domain.Article) bool {
		if keep(a) {
			cp := *a
			result = append(result, &cp)
		}
		return true
	})
	return result
}

func (s *MemoryStore) CreateArticle(_ context.Context, article domain.NewArticle) (*domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := article.Build(newID(), s.now())
	s.articles.put(a.ID, a)
	cp := *a
	return &cp, nil
}

func (s *MemoryStore) CreateContactSubmission(_ context.Context, submission domain.NewContactSubmission) (*domain.ContactSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := submission.Build(newID(), s.now())
	s.contactSubmissions.put(c.ID, c)
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) GetCartItems(_ context.Context, sessionID string) ([]domain.CartLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := make([]domain.CartLine, 0)
	var joinErr error
	s.cartItems.each(func(item *domain.CartItem) bool {
		if item.SessionID != sessionID {
			return true
		}
		product, ok := s.products.rows[item.ProductID]
		if !ok {
			joinErr = &MissingProductError{CartItemID: item.ID, ProductID: item.ProductID}
			return false
		}
		lines = append(lines, domain.CartLine{CartItem: *item, Product: *product})
		return true
	})
	if joinErr != nil {
		return nil, joinErr
	}
	return lines, nil
}

func (s *MemoryStore) GetCartItem(_ context.Context, id string) (*domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if item, ok := s.cartItems.rows[id]; ok {
		cp := *item
		return &cp, nil
	}
	return nil, nil
}

// AddToCart runs the lookup and the increment under one write lock so two
// concurrent adds of the same pair cannot both create a row.
func (s *MemoryStore) AddToCart(_ context.Context, item domain.NewCartItem) (*domain.CartItem, error) {
	quantity := item.EffectiveQuantity()
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var existing *domain.CartItem
	s.cartItems.each(func(ci *domain.CartItem) bool {
		if ci.SessionID == item.SessionID && ci.ProductID == item.ProductID {
			existing = ci
			return false
		}
		return true
	})

	if existing != nil {
		existing.Quantity += quantity
		cp := *existing
		return &cp, nil
	}

	ci := &domain.CartItem{
		ID:        newID(),
		SessionID: item.SessionID,
		ProductID: item.ProductID,
		Quantity:  quantity,
		CreatedAt: s.now(),
	}
	s.cartItems.put(ci.ID, ci)
	cp := *ci
	return &cp, nil
}

func (s *MemoryStore) UpdateCartItem(_ context.Context, id string, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.cartItems.rows[id]
	if !ok {
		return nil, nil
	}
	item.Quantity = quantity
	cp := *item
	return &cp, nil
}

func (s *MemoryStore) RemoveFromCart(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cartItems.delete(id), nil
}

func (s *MemoryStore) ClearCart(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	s.cartItems.each(func(item *domain.CartItem) bool {
		if item.SessionID == sessionID {
			ids = append(ids, item.ID)
		}
		return true
	})
	for _, id := range ids {
		s.cartItems.delete(id)
	}
	return nil
}

// Close is a no-op; the store holds no external resources.
func (s *MemoryStore) Close() error {
	return nil
}
