package cmd

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bernabedev/autogem/completion"
	"github.com/bernabedev/autogem/engine"
)

func TestIsQuietRefusalClassification(t *testing.T) {
	quiet := []error{
		fmt.Errorf("%w: line-too-short", engine.ErrNotTriggered),
		engine.ErrCompletionsDisabled,
		fmt.Errorf("%w: python", engine.ErrLanguageDisabled),
		completion.ErrRateLimited,
		context.Canceled,
		fmt.Errorf("request abandoned: %w", context.Canceled),
	}
	for _, err := range quiet {
		assert.True(t, isQuietRefusal(err), "expected quiet: %v", err)
	}

	assert.False(t, isQuietRefusal(nil))
	assert.False(t, isQuietRefusal(assert.AnError))
	assert.False(t, isQuietRefusal(context.DeadlineExceeded), "an upstream timeout is a failure")
}
