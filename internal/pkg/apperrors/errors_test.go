package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"custom not found", NewResourceNotFoundError("club not found"), KindNotFound},
		{"wrapped comment not found", fmt.Errorf("load: %w", ErrCommentNotFound), KindNotFound},
		{"forbidden", NewForbiddenError("only the author may edit"), KindForbidden},
		{"duplicate application", ErrDuplicateApplication, KindConflict},
		{"already exec", Wrap(ErrAlreadyExec, "already an exec"), KindConflict},
		{"validation", NewValidationError("body must not be empty"), KindValidation},
		{"token expired", ErrTokenExpired, KindUnauthorized},
		{"unknown", errors.New("connection reset"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestCustomError_MessageAndUnwrap(t *testing.T) {
	err := Wrap(ErrClubNameTaken, "pick another club name")

	assert.Equal(t, "pick another club name", err.Error())
	assert.ErrorIs(t, err, ErrClubNameTaken)
	assert.Equal(t, KindConflict, KindOf(err))

	forbidden := NewForbiddenError("leaders only")
	assert.ErrorIs(t, forbidden, ErrPermissionDenied)
	assert.Equal(t, "leaders only", forbidden.Error())

	bare := &CustomError{Err: ErrThreadLocked}
	assert.Equal(t, ErrThreadLocked.Error(), bare.Error())
	assert.Equal(t, "unknown error", (&CustomError{}).Error())
}
