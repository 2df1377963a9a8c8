package console

import "context"

// Phase is the state of a mutating flow. Every successful mutation is
// followed by a full re-fetch of the owning view; displayed state is
// never patched locally.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConfirmPending
	PhaseSubmitting
	PhaseDeleting
	PhaseIdleWithError
)

// RefreshFunc re-runs whichever loader produced the view being
// mutated. Supplied by the caller, invoked after every success.
type RefreshFunc func(ctx context.Context) error

// Confirmer obtains explicit user acknowledgment before an
// irreversible action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// DeleteFlow drives a delete action through the confirmation and
// refresh protocol: idle → confirm-pending → deleting → idle, with a
// cancel path back to idle and an error path to idle-with-error.
// There is no optimistic removal; rows disappear only when the
// refresh re-fetches the list without them.
type DeleteFlow struct {
	confirmer Confirmer
	phase     Phase
	errMsg    string
}

// NewDeleteFlow constructs a flow with the given confirmer.
func NewDeleteFlow(confirmer Confirmer) *DeleteFlow {
	return &DeleteFlow{confirmer: confirmer}
}

// Run asks for confirmation, performs the delete and, on success,
// invokes refresh. A declined confirmation returns nil with the flow
// back at idle.
func (f *DeleteFlow) Run(ctx context.Context, prompt string, del func(ctx context.Context) error, refresh RefreshFunc) error {
	if f.phase == PhaseDeleting || f.phase == PhaseConfirmPending {
		return nil
	}

	f.phase = PhaseConfirmPending
	if f.confirmer == nil || !f.confirmer.Confirm(prompt) {
		f.phase = PhaseIdle
		return nil
	}

	f.phase = PhaseDeleting
	if err := del(ctx); err != nil {
		f.phase = PhaseIdleWithError
		f.errMsg = ErrorDetail(err, "Failed to delete")
		return err
	}

	f.phase = PhaseIdle
	f.errMsg = ""
	if refresh != nil {
		return refresh(ctx)
	}
	return nil
}

// Phase returns the current state of the flow.
func (f *DeleteFlow) Phase() Phase {
	return f.phase
}

// ErrorMessage returns the failure message while in idle-with-error.
func (f *DeleteFlow) ErrorMessage() string {
	return f.errMsg
}
