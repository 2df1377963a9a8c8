package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteFlowDeclinedConfirmation(t *testing.T) {
	deleted := false
	refreshed := false
	flow := NewDeleteFlow(ConfirmerFunc(func(prompt string) bool { return false }))

	err := flow.Run(context.Background(), "Are you sure?", func(ctx context.Context) error {
		deleted = true
		return nil
	}, func(ctx context.Context) error {
		refreshed = true
		return nil
	})

	require.NoError(t, err)
	assert.False(t, deleted)
	assert.False(t, refreshed)
	assert.Equal(t, PhaseIdle, flow.Phase())
}

func TestDeleteFlowConfirmedDeletesThenRefreshes(t *testing.T) {
	var order []string
	flow := NewDeleteFlow(ConfirmerFunc(func(prompt string) bool {
		assert.Equal(t, "Are you sure you want to delete this customer?", prompt)
		return true
	}))

	err := flow.Run(context.Background(), "Are you sure you want to delete this customer?",
		func(ctx context.Context) error {
			order = append(order, "delete")
			return nil
		},
		func(ctx context.Context) error {
			order = append(order, "refresh")
			return nil
		})

	require.NoError(t, err)
	// The row disappears only through the refresh, never optimistically.
	assert.Equal(t, []string{"delete", "refresh"}, order)
	assert.Equal(t, PhaseIdle, flow.Phase())
	assert.Empty(t, flow.ErrorMessage())
}

func TestDeleteFlowFailureSkipsRefresh(t *testing.T) {
	refreshed := false
	flow := NewDeleteFlow(ConfirmerFunc(func(prompt string) bool { return true }))

	err := flow.Run(context.Background(), "sure?",
		func(ctx context.Context) error {
			return &GatewayError{Status: 403, detail: "Not authorized to delete this customer"}
		},
		func(ctx context.Context) error {
			refreshed = true
			return nil
		})

	require.Error(t, err)
	assert.False(t, refreshed)
	assert.Equal(t, PhaseIdleWithError, flow.Phase())
	assert.Equal(t, "Not authorized to delete this customer", flow.ErrorMessage())
}

func TestDeleteFlowRecoversAfterFailure(t *testing.T) {
	flow := NewDeleteFlow(ConfirmerFunc(func(prompt string) bool { return true }))

	_ = flow.Run(context.Background(), "sure?", func(ctx context.Context) error {
		return &GatewayError{Status: 500}
	}, nil)
	require.Equal(t, PhaseIdleWithError, flow.Phase())

	err := flow.Run(context.Background(), "sure?", func(ctx context.Context) error {
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, flow.Phase())
	assert.Empty(t, flow.ErrorMessage())
}

func TestDeleteFlowNilConfirmerNeverDeletes(t *testing.T) {
	deleted := false
	flow := NewDeleteFlow(nil)

	err := flow.Run(context.Background(), "sure?", func(ctx context.Context) error {
		deleted = true
		return nil
	}, nil)

	require.NoError(t, err)
	assert.False(t, deleted)
}
