package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestInit_ExportsSpansToWriter(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()

	shutdown, err := Init(ctx, Config{ServiceName: "ebs-test", ServiceVersion: "1.2.3", Writer: &buf})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	_, span := otel.Tracer("ebs/test").Start(ctx, "catalog.Search")
	span.End()

	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "catalog.Search") {
		t.Fatalf("exported spans missing span name: %s", out)
	}
	if !strings.Contains(out, "ebs-test") {
		t.Fatalf("exported spans missing service name: %s", out)
	}
}

func TestInit_WithoutWriter(t *testing.T) {
	ctx := context.Background()
	shutdown, err := Init(ctx, Config{})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	_, span := otel.Tracer("ebs/test").Start(ctx, "noop")
	span.End()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
