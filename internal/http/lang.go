package http

import (
	"net/http"

	"github.com/fjod/dhnaturally/internal/domain"
	"golang.org/x/text/language"
)

var (
	siteLanguages = []string{domain.LangHebrew, domain.LangEnglish}
	langMatcher   = language.NewMatcher([]language.Tag{language.Hebrew, language.English})
)

// requestLanguage picks the site language from the lang query parameter,
// then Accept-Language, then the fallback.
func requestLanguage(r *http.Request, fallback string) string {
	switch lang := r.URL.Query().Get("lang"); lang {
	case domain.LangHebrew, domain.LangEnglish:
		return lang
	}

	header := r.Header.Get("Accept-Language")
	if header == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, confidence := langMatcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	return siteLanguages[idx]
}
