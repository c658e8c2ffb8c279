package telemetry

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zaptest"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{Enabled: false}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProfilerConfig
		wantErr string
	}{
		{"missing server", ProfilerConfig{Enabled: true, ApplicationName: "credit-approval"}, "server address"},
		{"missing application", ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, "application name"},
		{"unknown profile type", ProfilerConfig{
			Enabled: true, ServerAddress: "http://localhost:4040", ApplicationName: "credit-approval",
			ProfileTypes: []string{"cpu", "heap"},
		}, `unknown profile type "heap"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProfiler(tt.cfg, zaptest.NewLogger(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseProfileTypes(t *testing.T) {
	t.Run("defaults to cpu and heap", func(t *testing.T) {
		types, err := parseProfileTypes(nil)
		require.NoError(t, err)
		assert.Equal(t, []pyroscope.ProfileType{pyroscope.ProfileCPU, pyroscope.ProfileAllocSpace, pyroscope.ProfileInuseSpace}, types)
	})

	t.Run("names are case-insensitive and deduplicated", func(t *testing.T) {
		types, err := parseProfileTypes([]string{"CPU", " mutex_count ", "cpu"})
		require.NoError(t, err)
		assert.Equal(t, []pyroscope.ProfileType{pyroscope.ProfileCPU, pyroscope.ProfileMutexCount}, types)
	})
}

func TestSanitizeLabels(t *testing.T) {
	pairs := sanitizeLabels(map[string]string{
		ProfilingLabelRoute:  "/api/v1/sales-orders/:id/fulfill",
		ProfilingLabelMethod: "POST",
		"tenant_id":          "b7c1",
		"empty":              "",
		"note":               strings.Repeat("x", MaxLabelValueLength+20),
	})

	require.Len(t, pairs, 6)
	assert.Equal(t, []string{"method", "POST", "note"}, pairs[:3])
	assert.Len(t, pairs[3], MaxLabelValueLength)
	assert.Equal(t, []string{"route", "/api/v1/sales-orders/:id/fulfill"}, pairs[4:])
}

func TestWithProfilingLabels(t *testing.T) {
	var route, method string
	var ok bool
	WithProfilingLabels(context.Background(), map[string]string{
		ProfilingLabelRoute:  "/api/v1/customers/:id/credit-limit",
		ProfilingLabelMethod: "PUT",
	}, func(ctx context.Context) {
		route, ok = pprof.Label(ctx, ProfilingLabelRoute)
		method, _ = pprof.Label(ctx, ProfilingLabelMethod)
	})

	require.True(t, ok)
	assert.Equal(t, "/api/v1/customers/:id/credit-limit", route)
	assert.Equal(t, "PUT", method)

	called := false
	WithProfilingLabels(context.Background(), nil, func(context.Context) { called = true })
	assert.True(t, called)
}

func TestNewTracerProvider_ProfileSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx := context.Background()
	tp, err := NewTracerProvider(ctx, Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "test-service",
		Insecure:          true,
		ProfileSpans:      true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.True(t, tp.IsEnabled())
	_, isSDK := tp.tracers.(*sdktrace.TracerProvider)
	assert.False(t, isSDK, "span profiling wraps the SDK provider")
	assert.Equal(t, tp.tracers, otel.GetTracerProvider())
	var tracer trace.Tracer = tp.Tracer("test")
	assert.NotNil(t, tracer)
	assert.NoError(t, tp.Shutdown(ctx))
}
