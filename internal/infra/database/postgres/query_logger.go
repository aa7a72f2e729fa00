package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/tracelog"
	applogger "github.com/labdan/Dashboard-sub000/internal/pkg/logger"
	"github.com/rs/zerolog"
)

// SlowQueryThreshold marks queries logged at WARN
const SlowQueryThreshold = 100 * time.Millisecond

type queryStartKey struct{}

// queryStart is what TraceQueryStart hands to TraceQueryEnd;
// pgx only reports the SQL on the start side.
type queryStart struct {
	at  time.Time
	sql string
}

// QueryLogger implements pgx.QueryTracer for logging database queries
type QueryLogger struct {
	logger zerolog.Logger
}

// NewQueryLogger creates a new query logger
func NewQueryLogger(logger zerolog.Logger) *QueryLogger {
	return &QueryLogger{logger: logger}
}

// TraceQueryStart is called at the beginning of Query, QueryRow, and Exec calls
func (ql *QueryLogger) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{at: time.Now(), sql: data.SQL})
}

// TraceQueryEnd is called at the end of Query, QueryRow, and Exec calls
func (ql *QueryLogger) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		start.at = time.Now()
	}
	duration := time.Since(start.at)

	var event *zerolog.Event
	msg := "Query executed"
	switch {
	case data.Err != nil:
		event = ql.logger.Error().Err(data.Err)
		msg = "Query failed"
	case duration > SlowQueryThreshold:
		event = ql.logger.Warn()
		msg = "⚠️  Slow query detected"
	default:
		event = ql.logger.Debug()
	}

	if id, ok := applogger.RequestIDFromContext(ctx); ok {
		event = event.Str("request_id", id)
	}

	event.
		Str("sql", start.sql).
		Int64("duration_ms", duration.Milliseconds()).
		Str("command_tag", data.CommandTag.String()).
		Msg(msg)
}

// PgxZerologAdapter adapts zerolog.Logger to pgx's tracelog.Logger interface
type PgxZerologAdapter struct {
	logger zerolog.Logger
}

// NewPgxZerologAdapter creates a new adapter
func NewPgxZerologAdapter(logger zerolog.Logger) *PgxZerologAdapter {
	return &PgxZerologAdapter{logger: logger}
}

// Log implements tracelog.Logger
func (l *PgxZerologAdapter) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	var event *zerolog.Event

	switch level {
	case tracelog.LogLevelTrace:
		event = l.logger.Trace()
	case tracelog.LogLevelDebug:
		event = l.logger.Debug()
	case tracelog.LogLevelInfo:
		event = l.logger.Info()
	case tracelog.LogLevelWarn:
		event = l.logger.Warn()
	case tracelog.LogLevelError:
		event = l.logger.Error()
	default:
		event = l.logger.Info()
	}

	event.Fields(data).Msg(msg)
}
