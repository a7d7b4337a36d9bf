package domain

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Language is one entry of the target language selector.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var supportedLanguages = []Language{
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "it", Name: "Italian"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "nl", Name: "Dutch"},
	{Code: "pl", Name: "Polish"},
	{Code: "ru", Name: "Russian"},
	{Code: "ja", Name: "Japanese"},
	{Code: "zh", Name: "Chinese (Simplified)"},
	{Code: "ko", Name: "Korean"},
	{Code: "tr", Name: "Turkish"},
	{Code: "id", Name: "Indonesian"},
	{Code: "hi", Name: "Hindi"},
	{Code: "ar", Name: "Arabic"},
}

// SupportedLanguages returns a copy of the selector list.
func SupportedLanguages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// DefaultTargetLanguage is English.
func DefaultTargetLanguage() Language {
	return supportedLanguages[0]
}

// LookupLanguage finds a supported language by code, ignoring case.
func LookupLanguage(code string) (Language, bool) {
	code = strings.TrimSpace(code)
	return lo.Find(supportedLanguages, func(l Language) bool {
		return strings.EqualFold(l.Code, code)
	})
}

// ParseLanguage is LookupLanguage with an error for unknown codes.
func ParseLanguage(code string) (Language, error) {
	lang, ok := LookupLanguage(code)
	if !ok {
		return Language{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	return lang, nil
}

// DetectedLanguageLabel renders the source-language badge.
func DetectedLanguageLabel(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "AUTO (Detected)"
	}
	if lang, ok := LookupLanguage(code); ok {
		return lang.Name + " (Detected)"
	}
	return strings.ToUpper(code) + " (Detected)"
}
