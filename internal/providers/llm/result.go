package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/language"

	"flashtranslate/internal/domain"
	"flashtranslate/internal/langdetect"
)

const resultSchemaText = `{
  "type": "object",
  "properties": {
    "detectedLanguage": {"type": "string"},
    "translatedText": {"type": "string", "pattern": "\\S"}
  },
  "required": ["translatedText"]
}`

var resultSchema = jsonschema.MustCompileString("translation-result.json", resultSchemaText)

// ParseResult turns the model's text reply into a TranslationResult. The
// reply may be wrapped in a Markdown code fence. sourceText is used to detect
// the language locally when the model leaves it out.
func ParseResult(reply string, sourceText string) (domain.TranslationResult, error) {
	payload := StripCodeFence(reply)
	if payload == "" {
		return domain.TranslationResult{}, fmt.Errorf("%w: empty reply", domain.ErrMalformedResponse)
	}

	var doc any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return domain.TranslationResult{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if err := resultSchema.Validate(doc); err != nil {
		return domain.TranslationResult{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	var result domain.TranslationResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return domain.TranslationResult{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	result.DetectedLanguage = NormalizeLanguageCode(result.DetectedLanguage)
	if result.DetectedLanguage == "" {
		result.DetectedLanguage = langdetect.DetectISO6391(sourceText)
	}
	return result, nil
}

// StripCodeFence removes ```json ... ``` wrapping and any prose around the
// outermost JSON object.
func StripCodeFence(reply string) string {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.HasPrefix(strings.TrimSpace(s[:nl]), "{") {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "json")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasPrefix(s, "{") {
		return s
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// NormalizeLanguageCode reduces whatever the model reported ("FR-fr", "fra",
// "French") to a lower-case ISO 639-1 code where possible.
func NormalizeLanguageCode(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if tag, err := language.Parse(raw); err == nil {
		if base, conf := tag.Base(); conf != language.No && base.String() != "und" {
			return base.String()
		}
	}

	for _, lang := range domain.SupportedLanguages() {
		name := lang.Name
		if i := strings.Index(name, " ("); i > 0 {
			name = name[:i]
		}
		if strings.EqualFold(name, raw) || strings.EqualFold(lang.Name, raw) {
			return lang.Code
		}
	}
	return strings.ToLower(raw)
}
