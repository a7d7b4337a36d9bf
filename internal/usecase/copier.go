package usecase

import (
	"context"
	"fmt"

	"flashtranslate/internal/domain"
	"flashtranslate/internal/ports"
)

type translationCopier struct {
	clipboard ports.Clipboard
	events    ports.EventSink
}

func newTranslationCopier(clipboard ports.Clipboard, events ports.EventSink) translationCopier {
	return translationCopier{clipboard: clipboard, events: events}
}

// Copy writes text to the clipboard. A failure is reported on the error
// channel but never touches the translation itself.
func (c translationCopier) Copy(ctx context.Context, text string) error {
	if text == "" {
		return domain.ErrNothingToCopy
	}
	if c.clipboard == nil {
		c.events.Error(domain.ErrorCodeClipboard, "clipboard is not available")
		return fmt.Errorf("copy translation: clipboard is not available")
	}
	if err := c.clipboard.SetText(ctx, text); err != nil {
		c.events.Error(domain.ErrorCodeClipboard, "translation ready but clipboard write failed")
		return fmt.Errorf("copy translation: %w", err)
	}
	return nil
}
