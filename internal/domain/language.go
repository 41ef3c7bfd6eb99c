package domain

// Site languages.
const (
	LangHebrew  = "he"
	LangEnglish = "en"
)
