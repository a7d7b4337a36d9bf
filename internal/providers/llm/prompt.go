// Package llm holds what the three vendor adapters share: the prompt, the
// parsing of the model's JSON reply and the HTTP plumbing.
package llm

import (
	"fmt"

	"flashtranslate/internal/domain"
)

const SystemInstruction = "You are a professional translator. Detect the source language automatically and translate the text accurately. Return the result in JSON format. Do not add any explanations."

// JSONKeysHint is appended to the system instruction for vendors without a
// structured output schema.
const JSONKeysHint = " Return JSON with keys: detectedLanguage, translatedText."

// StrictJSONHint is the stronger variant used for Claude, which has no JSON
// response mode at all.
const StrictJSONHint = " Return strictly JSON. No markdown, no explanations. keys: detectedLanguage, translatedText."

// UserPrompt renders the per-request instruction. TargetLanguage is the
// display name ("English"), not the code.
func UserPrompt(req domain.TranslationRequest) string {
	return fmt.Sprintf("Translate the following text to %s.\n\nText:\n\"%s\"", req.TargetLanguage, req.SourceText)
}
