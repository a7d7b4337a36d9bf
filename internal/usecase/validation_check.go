package usecase

import (
	"context"
)

// validationCheck is one in-flight credential check. Only the check whose
// generation still matches the controller's may commit its outcome.
type validationCheck struct {
	generation uint64
	cancel     context.CancelFunc
}

func newValidationCheck(generation uint64, cancel context.CancelFunc) *validationCheck {
	return &validationCheck{generation: generation, cancel: cancel}
}

func (v *validationCheck) stop() {
	v.cancel()
}
