package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found", NotFound("expense %s", "e1"), ErrNotFound},
		{"forbidden", Forbidden("owner only"), ErrForbidden},
		{"bad request", BadRequest("amount must be positive"), ErrBadRequest},
		{"conflict", Conflict("participant %s busy", "p1"), ErrConflict},
		{"wrapped twice", fmt.Errorf("create expense: %w", NotFound("payer")), ErrNotFound},
		{"internal", errors.New("disk full"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	err := NotFound("expense %s", "e1")
	assert.Equal(t, "not found: expense e1", err.Error())
}
