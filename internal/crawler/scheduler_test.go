package crawler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler("every day", func(context.Context) error { return nil }, zaptest.NewLogger(t))
	require.Error(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler("0 3 * * *", func(context.Context) error { return nil }, zaptest.NewLogger(t))
	require.NoError(t, err)

	s.Start()
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()
	assert.Error(t, s.ctx.Err())
}
