package metrics_test

import (
	"context"
	"testing"
	"time"

	"github.com/marcelsud/complaint-notifier/metrics"
	"github.com/marcelsud/complaint-notifier/reminder"
	"github.com/marcelsud/complaint-notifier/webhook"
	"github.com/marcelsud/complaint-notifier/webhook/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumBy(t *testing.T, m metricdata.Metrics, key, value string) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			return dp.Value
		}
	}
	return 0
}

func TestOTelExporter_RecordDelivery(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	oe, err := metrics.NewOTelExporterWithReader(nil, reader)
	require.NoError(t, err)
	defer oe.Shutdown(ctx)

	oe.RecordDelivery(ctx, "complaint.created", webhook.Retrying)
	oe.RecordDelivery(ctx, "complaint.created", webhook.Retrying)
	oe.RecordDelivery(ctx, "complaint.created", webhook.Delivered)

	got := collect(t, reader)
	deliveries := got["webhook.deliveries"]
	assert.Equal(t, int64(2), sumBy(t, deliveries, "webhook.outcome", webhook.Retrying.String()))
	assert.Equal(t, int64(1), sumBy(t, deliveries, "webhook.outcome", webhook.Delivered.String()))
	assert.Equal(t, int64(0), sumBy(t, deliveries, "webhook.outcome", webhook.Dropped.String()))

	// only the delivered job has left the queue
	var final int64
	for _, dp := range deliveries.Data.(metricdata.Sum[int64]).DataPoints {
		if v, ok := dp.Attributes.Value("webhook.final"); ok && v.AsBool() {
			final += dp.Value
		}
	}
	assert.Equal(t, int64(1), final)
}

func TestOTelExporter_RecordScan(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	oe, err := metrics.NewOTelExporterWithReader(nil, reader)
	require.NoError(t, err)
	defer oe.Shutdown(ctx)

	oe.RecordScan(ctx, reminder.Report{Sent: 3, Failed: 1, NoRecipients: 2, Duration: 1500 * time.Millisecond})

	got := collect(t, reader)
	assert.Equal(t, int64(3), sumBy(t, got["reminder.sends"], "reminder.result", "sent"))
	assert.Equal(t, int64(1), sumBy(t, got["reminder.sends"], "reminder.result", "failed"))
	assert.Equal(t, int64(2), sumBy(t, got["reminder.complaints"], "reminder.outcome", "no_recipients"))

	scans, ok := got["reminder.scans"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, scans.DataPoints, 1)
	assert.Equal(t, int64(1), scans.DataPoints[0].Value)

	hist, ok := got["reminder.scan.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.InDelta(t, 1.5, hist.DataPoints[0].Sum, 0.0001)
}

func TestOTelExporter_QueueLengthGauge(t *testing.T) {
	ctx := context.Background()
	q := memory.NewQueue()
	for i := 0; i < 3; i++ {
		job := webhook.NewJob("complaint.created", "http://crm/hooks", map[string]int{"i": i}, 3)
		require.NoError(t, q.Enqueue(ctx, job))
	}

	reader := sdkmetric.NewManualReader()
	oe, err := metrics.NewOTelExporterWithReader(metrics.NewQueueCollector(q, nil), reader)
	require.NoError(t, err)
	defer oe.Shutdown(ctx)

	gauge, ok := collect(t, reader)["webhook.queue.length"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(3), gauge.DataPoints[0].Value)
}
