package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		code int
		want ErrorType
	}{
		{404, ErrorTypeNotFound},
		{403, ErrorTypePrivate},
		{429, ErrorTypeRateLimit},
		{500, ErrorTypeServerError},
		{503, ErrorTypeServerError},
		{410, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.code), func(t *testing.T) {
			err := FromStatus(tt.code, "https://example.test")
			if assert.NotNil(t, err) {
				assert.Equal(t, tt.want, err.Type)
				assert.Equal(t, tt.code, err.Code)
			}
		})
	}

	assert.Nil(t, FromStatus(200, "https://example.test"))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrorTypeNetwork))
	assert.True(t, IsRetryable(ErrorTypeRateLimit))
	assert.True(t, IsRetryable(ErrorTypeServerError))
	assert.False(t, IsRetryable(ErrorTypeNotFound))
	assert.False(t, IsRetryable(ErrorTypePrivate))
	assert.False(t, IsRetryable(ErrorTypeParsing))

	assert.True(t, IsRetryableStatusCode(0))
	assert.True(t, IsRetryableStatusCode(502))
	assert.False(t, IsRetryableStatusCode(403))
}

func TestTypeOfWrapped(t *testing.T) {
	err := fmt.Errorf("fetching archive: %w", New(ErrorTypeParsing, 200, "bad json"))
	assert.Equal(t, ErrorTypeParsing, TypeOf(err))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(fmt.Errorf("plain")))
	assert.Contains(t, err.Error(), "parsing error (code 200): bad json")
}
