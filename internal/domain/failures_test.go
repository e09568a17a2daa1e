package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, FailureRemoteRejection, KindOf(NewFailure(FailureRemoteRejection, "status 409", nil)))
	assert.Equal(t, FailureTransport, KindOf(errors.New("dial tcp: connection refused")),
		"plain errors default to transport")

	wrapped := fmt.Errorf("calling platform: %w", Validationf("campo ausente"))
	assert.Equal(t, FailureValidation, KindOf(wrapped))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(Validationf("argumento obrigatório ausente: titulo")))
	assert.False(t, IsValidation(NewFailure(FailureTransport, "timeout", nil)))
	assert.False(t, IsValidation(errors.New("qualquer coisa")))
}

func TestFailureErrorIncludesCause(t *testing.T) {
	cause := errors.New("connection reset")
	f := NewFailure(FailureTransport, "GET /exam-types", cause)
	assert.Contains(t, f.Error(), "transport")
	assert.Contains(t, f.Error(), "connection reset")
	assert.ErrorIs(t, f, cause)
}
