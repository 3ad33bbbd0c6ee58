package observability

import (
	"context"
	"testing"
)

func TestExporterSettingsFromEnv(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SAMPLER_RATIO", "3")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "a=1, b = 2 ,broken,=x")
	s := exporterSettingsFromEnv()
	if !s.Enabled {
		t.Fatal("expected enabled")
	}
	if s.SampleRatio != 1 {
		t.Fatalf("ratio=%v want=1", s.SampleRatio)
	}
	if len(s.Headers) != 2 || s.Headers["a"] != "1" || s.Headers["b"] != "2" {
		t.Fatalf("headers=%v", s.Headers)
	}

	t.Setenv("OTEL_SAMPLER_RATIO", "-1")
	if got := exporterSettingsFromEnv().SampleRatio; got != 0 {
		t.Fatalf("ratio=%v want=0", got)
	}
}

func TestParseHeaderListEmpty(t *testing.T) {
	if h := parseHeaderList(" , =y"); h != nil {
		t.Fatalf("headers=%v want nil", h)
	}
}

func TestStartSpanWithoutProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test")
	defer span.End()
	if ctx == nil {
		t.Fatal("nil ctx")
	}
}
