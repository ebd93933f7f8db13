package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrapf(ErrModelNotFound, "lookup %s", "ghost")
	assert.True(t, stderrors.Is(err, ErrModelNotFound))
	assert.Equal(t, "lookup ghost: Model not found", err.Error())

	outer := fmt.Errorf("convert: %w", err)
	assert.True(t, stderrors.Is(outer, ErrModelNotFound))
	assert.False(t, stderrors.Is(outer, ErrCacheDisabled))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, Wrapf(nil, "nothing %d", 1))
}

func TestHelpers(t *testing.T) {
	assert.EqualError(t, RequiredField("voice_id"), "voice_id is required")
	assert.EqualError(t, NotFound("repository", "org/x"), "repository not found: org/x")
	assert.Equal(t, "Model not found", ErrModelNotFound.Message())
}
