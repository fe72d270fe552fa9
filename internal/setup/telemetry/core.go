package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

// Core implements zapcore.Core to record error logs as OpenTelemetry spans.
type Core struct {
	zapcore.LevelEnabler
	tracer trace.Tracer
	fields []zapcore.Field
}

// NewCore creates a new core that forwards logs to OpenTelemetry.
func NewCore(enab zapcore.LevelEnabler) zapcore.Core {
	return &Core{
		LevelEnabler: enab,
		tracer:       otel.Tracer("github.com/socialfolio/folio/logs"),
	}
}

func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	return &Core{
		LevelEnabler: c.LevelEnabler,
		tracer:       c.tracer,
		fields:       append(c.fields[:len(c.fields):len(c.fields)], fields...),
	}
}

func (c *Core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *Core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	_, span := c.tracer.Start(context.Background(), "log."+category(ent))
	defer span.End()

	enc := zapcore.NewMapObjectEncoder()
	for _, field := range c.fields {
		field.AddTo(enc)
	}
	for _, field := range fields {
		field.AddTo(enc)
	}

	attrs := make([]attribute.KeyValue, 0, len(enc.Fields)+3)
	attrs = append(attrs,
		attribute.String("log.message", ent.Message),
		attribute.String("log.severity", ent.Level.String()),
		attribute.String("code.function", ent.Caller.Function),
	)
	if ent.LoggerName != "" {
		attrs = append(attrs, attribute.String("log.logger", ent.LoggerName))
	}
	for key, value := range enc.Fields {
		attrs = append(attrs, attribute.String(key, fmt.Sprint(value)))
	}

	span.SetAttributes(attrs...)
	span.SetStatus(codes.Error, ent.Message)
	return nil
}

func (c *Core) Sync() error {
	return nil
}

// category groups log entries by the package that emitted them.
func category(ent zapcore.Entry) string {
	fn := ent.Caller.Function
	switch {
	case strings.Contains(fn, "/database"):
		return "database"
	case strings.Contains(fn, "/redis"), strings.Contains(fn, "/notify"):
		return "notify"
	case strings.Contains(fn, "/rest"):
		return "rest"
	case strings.Contains(fn, "/setup"):
		return "setup"
	default:
		return "application"
	}
}
