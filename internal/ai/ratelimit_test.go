package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoCompleter struct{ calls int }

func (e *echoCompleter) Complete(_ context.Context, prompt string) (string, error) {
	e.calls++
	return prompt, nil
}

func TestRateLimitedCompleter_Disabled(t *testing.T) {
	next := &echoCompleter{}
	assert.Same(t, Completer(next), NewRateLimitedCompleter(next, 0, 0))
}

func TestRateLimitedCompleter_HonoursContext(t *testing.T) {
	next := &echoCompleter{}
	c := NewRateLimitedCompleter(next, 0.001, 1)

	out, err := c.Complete(context.Background(), "first")
	require.NoError(t, err)
	assert.Equal(t, "first", out)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Complete(ctx, "second")
	require.Error(t, err)
	assert.Equal(t, 1, next.calls)
}
