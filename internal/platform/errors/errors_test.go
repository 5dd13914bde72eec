package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOfAndStatus(t *testing.T) {
	type testCase struct {
		name   string
		err    error
		code   Code
		status int
	}

	tests := []testCase{
		{name: "validation", err: InvalidInput("name", "Category name is required"), code: ErrCodeValidation, status: http.StatusBadRequest},
		{name: "not found", err: NotFound("category", 3), code: ErrCodeNotFound, status: http.StatusNotFound},
		{name: "conflict", err: New(ErrCodeConflict, "exists"), code: ErrCodeConflict, status: http.StatusConflict},
		{name: "unauthorized", err: New(ErrCodeUnauthorized, "no actor"), code: ErrCodeUnauthorized, status: http.StatusUnauthorized},
		{name: "persistence", err: Persistence("timeout", nil), code: ErrCodePersistence, status: http.StatusInternalServerError},
		{name: "plain error", err: stderrors.New("boom"), code: ErrCodeInternal, status: http.StatusInternalServerError},
		{name: "wrapped", err: fmt.Errorf("outer: %w", NotFound("flow", 1)), code: ErrCodeNotFound, status: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, CodeOf(tc.err))
			assert.Equal(t, tc.status, HTTPStatus(tc.err))
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, ErrCodeInternal, "failed to list categories")

	assert.Equal(t, "failed to list categories: connection refused", err.Error())
	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, stderrors.Is(err, New(ErrCodeInternal, "")))
}

func TestPersistenceUnwrap(t *testing.T) {
	cause := InvalidInput("name", "bad")
	err := Persistence("bad", cause)

	var verr *ValidationError
	assert.True(t, stderrors.As(err, &verr))
	assert.Equal(t, "name", FieldOf(verr))
	assert.Equal(t, ErrCodePersistence, CodeOf(err))
}
