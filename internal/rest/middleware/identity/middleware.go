package identity

import (
	"context"
	"net/http"
	"strconv"

	"github.com/socialfolio/folio/internal/database/types"
	"github.com/socialfolio/folio/internal/rest/respond"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

type userIDCtxKey struct{}

// WithUserID returns a context carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDCtxKey{}, userID)
}

// UserID retrieves the authenticated user ID from context.
func UserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDCtxKey{}).(int64)
	return userID, ok
}

// Middleware reads the caller identity set by the authenticating gateway.
type Middleware struct {
	header string
	logger *zap.Logger
}

// New creates a new identity middleware reading the given header.
func New(header string, logger *zap.Logger) *Middleware {
	return &Middleware{
		header: header,
		logger: logger.Named("identity"),
	}
}

// AsRESTMiddleware returns a bunrouter middleware that rejects requests
// without a valid user ID.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		raw := req.Header.Get(m.header)
		if raw == "" {
			return respond.Error(w, m.logger, types.ErrUnauthenticated)
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			m.logger.Debug("Rejected malformed identity header", zap.String("value", raw))
			return respond.Error(w, m.logger, types.ErrUnauthenticated)
		}

		return next(w, req.WithContext(WithUserID(req.Context(), userID)))
	}
}
