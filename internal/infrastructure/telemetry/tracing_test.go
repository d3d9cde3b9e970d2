package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agrisupply/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// setupTestTracer installs an in-memory span recorder as the global tracer
// provider and returns it with a cleanup that restores the original.
func setupTestTracer(t *testing.T) (*tracetest.SpanRecorder, func()) {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	return sr, func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	}
}

func attributeValue(s sdktrace.ReadOnlySpan, key string) (string, bool) {
	for _, attr := range s.Attributes() {
		if string(attr.Key) == key {
			return attr.Value.Emit(), true
		}
	}
	return "", false
}

func TestStartSpan(t *testing.T) {
	t.Run("records name and defaults to internal kind", func(t *testing.T) {
		sr, cleanup := setupTestTracer(t)
		defer cleanup()

		ctx, span := telemetry.StartSpan(context.Background(), "supply_intake.submit")
		require.NotNil(t, span)
		assert.Equal(t, span, trace.SpanFromContext(ctx))
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, "supply_intake.submit", spans[0].Name())
		assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
	})

	t.Run("applies attribute and kind options", func(t *testing.T) {
		sr, cleanup := setupTestTracer(t)
		defer cleanup()

		supplierID := uuid.New()
		_, span := telemetry.StartSpan(context.Background(), "supplier.sync",
			telemetry.WithAttribute(telemetry.SpanAttrSupplierID, supplierID),
			telemetry.WithAttribute(telemetry.SpanAttrBatchCount, 3),
			telemetry.WithSpanKind(trace.SpanKindClient),
		)
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())

		got, ok := attributeValue(spans[0], telemetry.SpanAttrSupplierID)
		assert.True(t, ok)
		assert.Equal(t, supplierID.String(), got)
		count, ok := attributeValue(spans[0], telemetry.SpanAttrBatchCount)
		assert.True(t, ok)
		assert.Equal(t, "3", count)
	})
}

func TestStartServiceSpan(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartServiceSpan(context.Background(), "lot_run", "advance")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "lot_run.advance", spans[0].Name())
}

func TestSetAttributes(t *testing.T) {
	t.Run("converts common value types", func(t *testing.T) {
		sr, cleanup := setupTestTracer(t)
		defer cleanup()

		_, span := telemetry.StartSpan(context.Background(), "supply_intake.submit")
		telemetry.SetAttributes(span,
			telemetry.SpanAttrDocumentNumber, "SUP-20260901-001",
			telemetry.SpanAttrBatchCount, 2,
			telemetry.SpanAttrAmount, 1250.50,
			"settled", false,
			"wait", 5*time.Second,
		)
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)

		for key, want := range map[string]string{
			telemetry.SpanAttrDocumentNumber: "SUP-20260901-001",
			telemetry.SpanAttrBatchCount:     "2",
			telemetry.SpanAttrAmount:         "1250.5",
			"settled":                        "false",
			"wait":                           "5s",
		} {
			got, ok := attributeValue(spans[0], key)
			assert.True(t, ok, key)
			assert.Equal(t, want, got, key)
		}
	})

	t.Run("skips non-string keys and dangling values", func(t *testing.T) {
		sr, cleanup := setupTestTracer(t)
		defer cleanup()

		_, span := telemetry.StartSpan(context.Background(), "supply_intake.submit")
		telemetry.SetAttributes(span,
			42, "ignored",
			telemetry.SpanAttrLotNumber, "LOT-20260901-001",
			"dangling",
		)
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		require.Len(t, spans[0].Attributes(), 1)
		got, _ := attributeValue(spans[0], telemetry.SpanAttrLotNumber)
		assert.Equal(t, "LOT-20260901-001", got)
	})

	t.Run("nil span is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			telemetry.SetAttributes(nil, telemetry.SpanAttrStage, "DRYING")
		})
	})
}

func TestSetAttribute(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartSpan(context.Background(), "lot_run.advance")
	telemetry.SetAttribute(span, telemetry.SpanAttrStage, "CLEANING")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	got, ok := attributeValue(spans[0], telemetry.SpanAttrStage)
	assert.True(t, ok)
	assert.Equal(t, "CLEANING", got)
}

func TestRecordError(t *testing.T) {
	t.Run("sets error status and records the event", func(t *testing.T) {
		sr, cleanup := setupTestTracer(t)
		defer cleanup()

		_, span := telemetry.StartSpan(context.Background(), "supply_intake.submit")
		telemetry.RecordError(span, errors.New("supplier is no longer active"))
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Equal(t, "supplier is no longer active", spans[0].Status().Description)

		require.NotEmpty(t, spans[0].Events())
		assert.Equal(t, "exception", spans[0].Events()[0].Name)
	})

	t.Run("nil error leaves the span untouched", func(t *testing.T) {
		sr, cleanup := setupTestTracer(t)
		defer cleanup()

		_, span := telemetry.StartSpan(context.Background(), "supply_intake.submit")
		telemetry.RecordError(span, nil)
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.NotEqual(t, codes.Error, spans[0].Status().Code)
		assert.Empty(t, spans[0].Events())
	})

	t.Run("nil span is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			telemetry.RecordError(nil, errors.New("boom"))
		})
	})
}

func TestSetOK(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartSpan(context.Background(), "supply_intake.submit")
	telemetry.SetOK(span)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
}

func TestAddEvent(t *testing.T) {
	t.Run("records the event with attributes", func(t *testing.T) {
		sr, cleanup := setupTestTracer(t)
		defer cleanup()

		_, span := telemetry.StartSpan(context.Background(), "supply_intake.submit")
		telemetry.AddEvent(span, "lot_run_started",
			telemetry.SpanAttrLotNumber, "LOT-20260901-001",
			telemetry.SpanAttrQuantity, "480.5",
		)
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		require.Len(t, spans[0].Events(), 1)

		event := spans[0].Events()[0]
		assert.Equal(t, "lot_run_started", event.Name)
		require.Len(t, event.Attributes, 2)
		assert.Equal(t, telemetry.SpanAttrLotNumber, string(event.Attributes[0].Key))
		assert.Equal(t, "LOT-20260901-001", event.Attributes[0].Value.Emit())
	})

	t.Run("nil span is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			telemetry.AddEvent(nil, "lot_run_started")
		})
	})
}

func TestSpanFromContext(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	ctx, span := telemetry.StartSpan(context.Background(), "supply_intake.submit")
	assert.Equal(t, span, telemetry.SpanFromContext(ctx))
	span.End()

	require.Len(t, sr.Ended(), 1)
}
