package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestImportErrorMessage(t *testing.T) {
	cause := stderrors.New("connection refused")

	err := NewNetwork("najeeb", "fetch failed", cause)
	assert.Equal(t, "[network] najeeb: fetch failed - connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	err = NewValidation("", "url is required")
	assert.Equal(t, "[validation] : url is required", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestTypeOf(t *testing.T) {
	wrapped := fmt.Errorf("import: %w", NewRateLimit("dvago", 30*time.Second))
	assert.Equal(t, ErrorTypeRateLimit, TypeOf(wrapped))
	assert.Equal(t, ErrorTypeStore, TypeOf(NewStore("x", "list brands", nil)))
	assert.Equal(t, ErrorType(""), TypeOf(stderrors.New("plain")))
	assert.Equal(t, ErrorType(""), TypeOf(nil))
}
