package telemetry

import (
	"context"
	"runtime/pprof"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProfiler(t *testing.T) {
	t.Run("disabled profiler is a no-op", func(t *testing.T) {
		p, err := NewProfiler(ProfilerConfig{}, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, p.IsEnabled())
		assert.NoError(t, p.Stop())
		assert.NoError(t, p.Stop())
	})

	t.Run("requires a server address", func(t *testing.T) {
		_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "storefront"}, zap.NewNop())
		assert.ErrorContains(t, err, "server address")
	})

	t.Run("requires an application name", func(t *testing.T) {
		_, err := NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://pyroscope:4040"}, zap.NewNop())
		assert.ErrorContains(t, err, "application name")
	})
}

func TestWithProfilingLabels(t *testing.T) {
	t.Run("labels are visible inside fn", func(t *testing.T) {
		var route, area string
		WithProfilingLabels(context.Background(), map[string]string{
			LabelRoute:  "/api/v1/cart",
			LabelArea:   "storefront",
			LabelMethod: "",
		}, func(ctx context.Context) {
			route, _ = pprof.Label(ctx, LabelRoute)
			area, _ = pprof.Label(ctx, LabelArea)
			_, hasMethod := pprof.Label(ctx, LabelMethod)
			assert.False(t, hasMethod)
		})
		assert.Equal(t, "/api/v1/cart", route)
		assert.Equal(t, "storefront", area)
	})

	t.Run("no labels still runs fn", func(t *testing.T) {
		called := false
		WithProfilingLabels(context.Background(), nil, func(context.Context) { called = true })
		assert.True(t, called)
	})
}
