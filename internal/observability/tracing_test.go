package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "inkwell-test", Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	span, ctx := NewSpan(context.Background(), "unit", attribute.String("k", "v"))
	assert.NotNil(t, ctx)
	span.AddAttributes(attribute.Int("n", 1))
	span.SetError(errors.New("boom"))
	span.End()
}

func TestSpanZeroValueIsSafe(t *testing.T) {
	var s Span
	s.AddAttributes(attribute.Bool("ok", true))
	s.SetError(errors.New("ignored"))
	s.End()
}

func TestTrackFanoutObserves(t *testing.T) {
	done := TrackFanout("unit_test")
	done()
	assert.GreaterOrEqual(t, testutil.CollectAndCount(FanoutDuration), 1)
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", samplerFor(1).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
	assert.Contains(t, samplerFor(0).Description(), "AlwaysOffSampler")
}
