package domain

// Event names shared by the desktop runtime and the websocket stream.
const (
	EventState      = "flashtranslate:state"
	EventValidation = "flashtranslate:validation"
	EventError      = "flashtranslate:error"
)

// StateView is UIState plus the derived labels the UI renders.
type StateView struct {
	UIState
	CanTranslate  bool   `json:"canTranslate"`
	DetectedLabel string `json:"detectedLabel"`
	ProviderLabel string `json:"providerLabel"`
	ModelLabel    string `json:"modelLabel"`
}

func NewStateView(s UIState) StateView {
	return StateView{
		UIState:       s,
		CanTranslate:  s.CanTranslate(),
		DetectedLabel: DetectedLanguageLabel(s.DetectedLanguage),
		ProviderLabel: s.Provider.Label(),
		ModelLabel:    s.Provider.ModelLabel(),
	}
}

type StateEvent struct {
	Reason  StateReason `json:"reason"`
	Message string      `json:"message,omitempty"`
	State   StateView   `json:"state"`
}

type ValidationEvent struct {
	Status ValidationStatus `json:"status"`
}

type ErrorEvent struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Message is the status line shown for a state change.
func (r StateReason) Message() string {
	switch r {
	case StateReasonTranslating:
		return "Translating..."
	case StateReasonTranslated:
		return "Translation ready"
	case StateReasonTranslationFailed:
		return "Translation failed"
	case StateReasonTranslationCanceled:
		return "Translation canceled"
	case StateReasonConfigSaved:
		return "Settings saved"
	case StateReasonTranslationCopied:
		return "Copied to clipboard"
	default:
		return ""
	}
}
