package checkout

import (
	"errors"
	"strings"
)

var (
	ErrEmptyCart           = errors.New("cart is empty, nothing to checkout")
	ErrNoActiveSession     = errors.New("no active checkout session")
	ErrWrongStep           = errors.New("command not valid at current step")
	ErrNoPreviousStep      = errors.New("no previous step")
	ErrDuplicateSubmission = errors.New("payment submission already in flight")
	ErrUnknownMethod       = errors.New("unknown shipping method")
)

// ValidationError names the missing or malformed fields of a step
// submission. The session stays on its current step; the caller
// re-prompts.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}
