package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestObservability_RecordsRequests(t *testing.T) {
	reader := metric.NewManualReader()
	o, err := newWithReader("test", reader)
	require.NoError(t, err)
	defer o.Shutdown(context.Background())

	o.RecordRequest(context.Background(), "/admin/puppies", 200, 12*time.Millisecond)
	o.RecordRequest(context.Background(), "/admin/puppies", 200, 8*time.Millisecond)
	o.RecordScreenEvent(context.Background(), "opened")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	requests, ok := byName["admin.requests"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, requests.DataPoints, 1)
	assert.Equal(t, int64(2), requests.DataPoints[0].Value)

	events, ok := byName["waitlist.screen.events"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(1), events.DataPoints[0].Value)
}

func TestObservability_NilIsSafe(t *testing.T) {
	var o *Observability
	o.RecordRequest(context.Background(), "/", 200, time.Millisecond)
	o.RecordScreenEvent(context.Background(), "closed")
	assert.NoError(t, o.Shutdown(context.Background()))
}
