package controls

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindName(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", base, ""},
		{"not found", &AssertionError{Kind: ErrNotFound}, "NotFound"},
		{"mismatch", &AssertionError{Kind: ErrMismatch}, "Mismatch"},
		{"state", &AssertionError{Kind: ErrStateMismatch}, "StateMismatch"},
		{"timeout over not found", &AssertionError{Kind: ErrTimeout, Cause: ErrNotFound}, "Timeout"},
		{"wrapped", fmt.Errorf("step: %w", &AssertionError{Kind: ErrMismatch}), "Mismatch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindName(tt.err))
		})
	}
}

func TestAsTimeout(t *testing.T) {
	root := errors.New("socket closed")

	t.Run("keeps prior kind and cause", func(t *testing.T) {
		err := asTimeout(&AssertionError{Kind: ErrNotFound, Target: "#scan", Cause: root})

		var ae *AssertionError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, ErrTimeout, ae.Kind)
		assert.Equal(t, "#scan", ae.Target)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, root)
		assert.Equal(t, "Timeout", KindName(err))
	})

	t.Run("no cause", func(t *testing.T) {
		err := asTimeout(&AssertionError{Kind: ErrStateMismatch})
		assert.ErrorIs(t, err, ErrTimeout)
		assert.ErrorIs(t, err, ErrStateMismatch)
	})

	t.Run("already timeout", func(t *testing.T) {
		in := &AssertionError{Kind: ErrTimeout}
		assert.Same(t, in, asTimeout(in))
	})

	t.Run("plain error untouched", func(t *testing.T) {
		assert.Same(t, root, asTimeout(root))
	})
}

func TestAssertionError_Error(t *testing.T) {
	err := &AssertionError{
		Kind:      ErrMismatch,
		Operation: "ValidateText",
		Target:    "#title",
		Check:     "text",
		Expected:  "Jobs",
		Actual:    "Job History",
		Elapsed:   1500 * time.Millisecond,
	}
	assert.Equal(t, `ValidateText: mismatch (text) on #title: expected "Jobs", got "Job History" after 1.5s`, err.Error())

	bare := &AssertionError{Kind: ErrNotFound, Cause: errors.New("no node")}
	assert.Equal(t, "not found: no node", bare.Error())
}
