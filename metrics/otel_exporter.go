package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/marcelsud/complaint-notifier/reminder"
	"github.com/marcelsud/complaint-notifier/webhook"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "complaint-notifier"

/* OTelExporter records delivery and reminder metrics and exposes them
 * in Prometheus format. It satisfies webhook.Recorder and reminder.Recorder.
 */
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	collector     Collector

	meter            metric.Meter
	deliveries       metric.Int64Counter
	reminderScans    metric.Int64Counter
	reminderSends    metric.Int64Counter
	reminderOutcomes metric.Int64Counter
	scanDuration     metric.Float64Histogram
	queueLength      metric.Int64ObservableGauge
}

// NewOTelExporter exports through the Prometheus registry and becomes the global meter provider
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	oe, err := NewOTelExporterWithReader(collector, exporter)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(oe.meterProvider)

	return oe, nil
}

// NewOTelExporterWithReader records into any reader, such as a ManualReader in tests
func NewOTelExporterWithReader(collector Collector, reader sdkmetric.Reader) (*OTelExporter, error) {
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		collector:     collector,
		meter:         meterProvider.Meter(meterName, metric.WithInstrumentationVersion("1.0.0")),
	}

	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.deliveries, err = oe.meter.Int64Counter(
		"webhook.deliveries",
		metric.WithDescription("Webhook delivery attempts by event and outcome"),
		metric.WithUnit("{attempts}"),
	)
	if err != nil {
		return fmt.Errorf("creating deliveries counter: %w", err)
	}

	oe.reminderScans, err = oe.meter.Int64Counter(
		"reminder.scans",
		metric.WithDescription("Completed deadline scans"),
		metric.WithUnit("{scans}"),
	)
	if err != nil {
		return fmt.Errorf("creating scans counter: %w", err)
	}

	oe.reminderSends, err = oe.meter.Int64Counter(
		"reminder.sends",
		metric.WithDescription("Deadline reminder mails by result"),
		metric.WithUnit("{mails}"),
	)
	if err != nil {
		return fmt.Errorf("creating sends counter: %w", err)
	}

	oe.reminderOutcomes, err = oe.meter.Int64Counter(
		"reminder.complaints",
		metric.WithDescription("Due complaints by handling outcome"),
		metric.WithUnit("{complaints}"),
	)
	if err != nil {
		return fmt.Errorf("creating complaints counter: %w", err)
	}

	oe.scanDuration, err = oe.meter.Float64Histogram(
		"reminder.scan.duration",
		metric.WithDescription("Duration of a deadline scan"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("creating scan duration histogram: %w", err)
	}

	oe.queueLength, err = oe.meter.Int64ObservableGauge(
		"webhook.queue.length",
		metric.WithDescription("Number of pending webhook jobs"),
		metric.WithUnit("{jobs}"),
		metric.WithInt64Callback(oe.observeQueueLength),
	)
	if err != nil {
		return fmt.Errorf("creating queue length gauge: %w", err)
	}

	return nil
}

func (oe *OTelExporter) observeQueueLength(ctx context.Context, observer metric.Int64Observer) error {
	if oe.collector == nil {
		return nil
	}
	length, err := oe.collector.GetQueueLength(ctx)
	if err != nil {
		return err
	}
	observer.Observe(length)
	return nil
}

// RecordDelivery counts one delivery attempt
func (oe *OTelExporter) RecordDelivery(ctx context.Context, event string, outcome webhook.Outcome) {
	oe.deliveries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("webhook.event", event),
		attribute.String("webhook.outcome", outcome.String()),
		attribute.Bool("webhook.final", outcome.IsFinal()),
	))
}

// RecordScan counts the results of one deadline scan
func (oe *OTelExporter) RecordScan(ctx context.Context, r reminder.Report) {
	oe.reminderScans.Add(ctx, 1)
	oe.scanDuration.Record(ctx, r.Duration.Seconds())

	sends := map[string]int{"sent": r.Sent, "failed": r.Failed}
	for result, n := range sends {
		if n > 0 {
			oe.reminderSends.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reminder.result", result)))
		}
	}

	outcomes := map[string]int{
		"skipped":        r.Skipped,
		"no_recipients":  r.NoRecipients,
		"resolve_failed": r.ResolveFails,
	}
	for outcome, n := range outcomes {
		if n > 0 {
			oe.reminderOutcomes.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reminder.outcome", outcome)))
		}
	}
}

// ServeHTTP serves Prometheus-formatted metrics
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.Handler()
}

// Shutdown flushes and stops the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
