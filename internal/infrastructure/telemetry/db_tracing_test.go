package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// supplyRecord stands in for a persisted aggregate row in these tests
type supplyRecord struct {
	ID             uint   `gorm:"primaryKey"`
	DocumentNumber string `gorm:"size:50"`
	CreatedAt      time.Time
}

func openTracingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&supplyRecord{}))
	return db
}

func newRecordingSpan(t *testing.T) (context.Context, *tracetest.SpanRecorder, func()) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	ctx, span := tp.Tracer("test").Start(context.Background(), "db-operation")
	return ctx, recorder, func() {
		span.End()
		_ = tp.Shutdown(context.Background())
	}
}

func spanAttribute(s sdktrace.ReadOnlySpan, key string) (string, bool) {
	for _, attr := range s.Attributes() {
		if string(attr.Key) == key {
			return attr.Value.Emit(), true
		}
	}
	return "", false
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
	assert.True(t, cfg.WithoutVariables)
}

func TestDBTracingPlugin_RegisterOtelGorm(t *testing.T) {
	t.Run("disabled config registers nothing", func(t *testing.T) {
		db := openTracingTestDB(t)
		plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())

		require.NoError(t, plugin.RegisterOtelGorm(db))

		assert.Nil(t, db.Callback().Query().Get("otel_slow_query:query"))
		assert.Nil(t, db.Callback().Query().Get("otel_timing:before_query"))
	})

	t.Run("enabled config registers timing and slow query callbacks", func(t *testing.T) {
		db := openTracingTestDB(t)
		cfg := DefaultDBTracingConfig()
		cfg.Enabled = true
		plugin := NewDBTracingPlugin(cfg, zap.NewNop())

		require.NoError(t, plugin.RegisterOtelGorm(db))

		assert.NotNil(t, db.Callback().Query().Get("otel_timing:before_query"))
		assert.NotNil(t, db.Callback().Query().Get("otel_slow_query:query"))
		assert.NotNil(t, db.Callback().Create().Get("otel_slow_query:create"))
	})
}

func TestDBTracingPlugin_SlowQueryCallback(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	plugin := NewDBTracingPlugin(cfg, zap.NewNop())

	t.Run("annotates table and rows affected", func(t *testing.T) {
		db := openTracingTestDB(t)
		ctx, recorder, done := newRecordingSpan(t)

		result := db.WithContext(ctx).Create(&supplyRecord{DocumentNumber: "SUP-20260901-001"})
		require.NoError(t, result.Error)

		plugin.slowQueryCallback(result)
		done()

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		table, ok := spanAttribute(spans[0], "db.sql.table")
		assert.True(t, ok)
		assert.Equal(t, "supply_records", table)
		rows, ok := spanAttribute(spans[0], "db.rows_affected")
		assert.True(t, ok)
		assert.Equal(t, "1", rows)
	})

	t.Run("marks queries beyond the threshold", func(t *testing.T) {
		db := openTracingTestDB(t)
		ctx, recorder, done := newRecordingSpan(t)
		ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-time.Second))

		var rec supplyRecord
		result := db.WithContext(ctx).Limit(1).Find(&rec)
		require.NoError(t, result.Error)

		plugin.slowQueryCallback(result)
		done()

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		slow, ok := spanAttribute(spans[0], "db.slow_query")
		assert.True(t, ok)
		assert.Equal(t, "true", slow)

		eventNames := make([]string, 0, len(spans[0].Events()))
		for _, ev := range spans[0].Events() {
			eventNames = append(eventNames, ev.Name)
		}
		assert.Contains(t, eventNames, "slow_query_warning")
	})

	t.Run("fast queries stay unmarked", func(t *testing.T) {
		db := openTracingTestDB(t)
		ctx, recorder, done := newRecordingSpan(t)
		ctx = context.WithValue(ctx, queryStartTimeKey, time.Now())

		var rec supplyRecord
		result := db.WithContext(ctx).Limit(1).Find(&rec)
		require.NoError(t, result.Error)

		plugin.slowQueryCallback(result)
		done()

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		_, ok := spanAttribute(spans[0], "db.slow_query")
		assert.False(t, ok)
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		db := openTracingTestDB(t)
		ctx, recorder, done := newRecordingSpan(t)

		var rec supplyRecord
		result := db.WithContext(ctx).First(&rec, 99999)
		require.ErrorIs(t, result.Error, gorm.ErrRecordNotFound)

		plugin.slowQueryCallback(result)
		done()

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.NotEqual(t, codes.Error, spans[0].Status().Code)
	})

	t.Run("database errors set error status", func(t *testing.T) {
		db := openTracingTestDB(t)
		ctx, recorder, done := newRecordingSpan(t)

		var out int
		result := db.WithContext(ctx).Raw("SELECT id FROM missing_table").Scan(&out)
		require.Error(t, result.Error)

		plugin.slowQueryCallback(result)
		done()

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
	})

	t.Run("no recording span is a no-op", func(t *testing.T) {
		db := openTracingTestDB(t)

		var rec supplyRecord
		result := db.WithContext(context.Background()).Limit(1).Find(&rec)
		require.NoError(t, result.Error)

		assert.NotPanics(t, func() { plugin.slowQueryCallback(result) })
	})
}
