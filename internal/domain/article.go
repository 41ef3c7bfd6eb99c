package domain

import "time"

// Article is a blog post in both site languages.
type Article struct {
	ID        string    `json:"id"`
	TitleHe   string    `json:"title_he"`
	TitleEn   string    `json:"title_en"`
	ExcerptHe string    `json:"excerpt_he"`
	ExcerptEn string    `json:"excerpt_en"`
	ContentHe string    `json:"content_he"`
	ContentEn string    `json:"content_en"`
	ImageURL  string    `json:"image_url"`
	Category  string    `json:"category"`
	ReadTime  int       `json:"read_time"`
	Featured  bool      `json:"featured"`
	CreatedAt time.Time `json:"created_at"`
}

// NewArticle holds the caller supplied fields of an Article.
// A nil Featured means false.
type NewArticle struct {
	TitleHe   string `json:"title_he"`
	TitleEn   string `json:"title_en"`
	ExcerptHe string `json:"excerpt_he"`
	ExcerptEn string `json:"excerpt_en"`
	ContentHe string `json:"content_he"`
	ContentEn string `json:"content_en"`
	ImageURL  string `json:"image_url"`
	Category  string `json:"category"`
	ReadTime  int    `json:"read_time"`
	Featured  *bool  `json:"featured,omitempty"`
}

func (n NewArticle) Build(id string, now time.Time) *Article {
	return &Article{
		ID:        id,
		TitleHe:   n.TitleHe,
		TitleEn:   n.TitleEn,
		ExcerptHe: n.ExcerptHe,
		ExcerptEn: n.ExcerptEn,
		ContentHe: n.ContentHe,
		ContentEn: n.ContentEn,
		ImageURL:  n.ImageURL,
		Category:  n.Category,
		ReadTime:  n.ReadTime,
		Featured:  boolOr(n.Featured, false),
		CreatedAt: now,
	}
}
