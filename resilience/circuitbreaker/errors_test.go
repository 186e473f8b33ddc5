package circuitbreaker

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerError_UnwrapsSentinelAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := newBreakerError("ocr", StateClosed, ErrServiceFailure, cause)

	assert.ErrorIs(t, err, ErrServiceFailure)
	assert.ErrorIs(t, err, cause)

	var breakerErr *BreakerError
	require.ErrorAs(t, fmt.Errorf("processing: %w", err), &breakerErr)
	assert.Equal(t, "ocr", breakerErr.Service)
}

func TestBreakerError_Message(t *testing.T) {
	failFast := newBreakerError("tts", StateOpen, ErrOpenState, nil)
	assert.Contains(t, failFast.Error(), "tts")
	assert.Contains(t, failFast.Error(), "open")

	withCause := newBreakerError("tts", StateClosed, ErrServiceFailure, errors.New("boom"))
	assert.Contains(t, withCause.Error(), "boom")
}

func TestErrorClassifiers(t *testing.T) {
	assert.True(t, IsOpenError(newBreakerError("a", StateOpen, ErrOpenState, nil)))
	assert.False(t, IsOpenError(errors.New("unrelated")))

	assert.True(t, IsTimeoutError(newBreakerError("a", StateOpen, ErrCallTimeout, nil)))
	assert.False(t, IsTimeoutError(newBreakerError("a", StateOpen, ErrOpenState, nil)))
}
