package requestid

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bunrouter"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Header carries the request ID in both directions.
const Header = "X-Request-ID"

type requestIDCtxKey struct{}

// FromContext retrieves the request ID from context.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDCtxKey{}).(string); ok {
		return id
	}
	return ""
}

// Middleware assigns a request ID, bounds the request with a timeout and
// logs each request.
type Middleware struct {
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a new request ID middleware.
func New(timeout time.Duration, logger *zap.Logger) *Middleware {
	return &Middleware{
		timeout: timeout,
		logger:  logger.Named("http"),
	}
}

// AsRESTMiddleware returns a bunrouter middleware handler.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		id := req.Header.Get(Header)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)

		ctx := context.WithValue(req.Context(), requestIDCtxKey{}, id)
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("http.request_id", id))

		if m.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, m.timeout)
			defer cancel()
		}

		start := time.Now()
		err := next(w, req.WithContext(ctx))

		m.logger.Debug("Handled request",
			zap.String("requestID", id),
			zap.String("method", req.Method),
			zap.String("route", req.Route()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))

		return err
	}
}
