package drawer

import "context"

// Default confirmation prompt for dirty drawers.
const (
	DefaultConfirmTitle   = "Unsaved changes"
	DefaultConfirmMessage = "You have unsaved changes. Are you sure you want to leave?"
)

// Prompt is the question shown before discarding unsaved changes.
type Prompt struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Confirmer decides whether a dirty drawer may close.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, p Prompt) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) bool { return f(ctx, p) }

var (
	// AlwaysConfirm accepts every prompt.
	AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, Prompt) bool { return true })

	// NeverConfirm declines every prompt.
	NeverConfirm Confirmer = ConfirmFunc(func(context.Context, Prompt) bool { return false })
)

// CloseResult is the outcome of a close request.
type CloseResult uint8

const (
	Closed CloseResult = iota
	Declined
	NotFound
)

// String implements fmt.Stringer.
func (r CloseResult) String() string {
	switch r {
	case Closed:
		return "closed"
	case Declined:
		return "declined"
	case NotFound:
		return "not_found"
	}
	return "unknown"
}
