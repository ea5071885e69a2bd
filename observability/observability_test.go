package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestMetricsRecordsOperationsAndErrors(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ctx := context.Background()
	m.RecordOperation(ctx, "openai", "execute", "ok", 120*time.Millisecond)
	m.RecordError(ctx, "execute", "openai")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			names[metric.Name] = true
		}
	}
	for _, want := range []string{"vlmscribe.operation.total", "vlmscribe.operation.duration", "vlmscribe.error.total"} {
		if !names[want] {
			t.Errorf("metric %s not collected (got %v)", want, names)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordOperation(context.Background(), "c", "op", "ok", time.Second)
	m.RecordError(context.Background(), "op", "c")
}

func TestSpanHelpers(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, span := StartSpan(context.Background(), "vlm.openai")
	SetSpanAttribute(ctx, AttrModel, "gpt-4-vision")
	SetSpanError(ctx, errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Name() != "vlm.openai" {
		t.Errorf("span name = %s", ended[0].Name())
	}
	if len(ended[0].Events()) == 0 {
		t.Error("error event not recorded")
	}
}

func TestSetupDisabledIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{}, ServiceInfo{Name: "vlmscribe"})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{SampleRate: 1.5}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sample rate above 1")
	}
	cfg = Config{}
	cfg.ApplyDefaults()
	if cfg.SampleRate != 1.0 || cfg.Endpoint == "" || cfg.MetricInterval == 0 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}
