package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, NotFound, KindOf(New(NotFound, "slot not found")))
	assert.Equal(t, Internal, KindOf(errors.New("plain error")))

	wrapped := fmt.Errorf("handler: %w", New(FailedPrecondition, "slot is not open"))
	assert.Equal(t, FailedPrecondition, KindOf(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("pq: connection reset")
	err := Wrap(Internal, "failed to book slot", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "failed to book slot")
	assert.Equal(t, "failed to book slot", Message(err))
}

func TestMessageHidesInternalDetail(t *testing.T) {
	assert.Equal(t, "internal server error", Message(errors.New("pq: deadlock detected")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{Unauthenticated, http.StatusUnauthorized},
		{InvalidArgument, http.StatusBadRequest},
		{NotFound, http.StatusNotFound},
		{FailedPrecondition, http.StatusConflict},
		{Internal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(New(tt.kind, "x")), string(tt.kind))
	}
}
