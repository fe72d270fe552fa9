package admin

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/socialfolio/folio/internal/database/types"
	"github.com/socialfolio/folio/internal/rest/respond"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// Middleware guards administrative routes with a static bearer token.
type Middleware struct {
	token  []byte
	logger *zap.Logger
}

// New creates a new admin middleware. An empty token disables every admin route.
func New(token string, logger *zap.Logger) *Middleware {
	return &Middleware{
		token:  []byte(token),
		logger: logger.Named("admin"),
	}
}

// AsRESTMiddleware returns a bunrouter middleware requiring the admin token.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		auth := req.Header.Get("Authorization")
		if auth == "" {
			return respond.Error(w, m.logger, types.ErrUnauthenticated)
		}

		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || len(m.token) == 0 || subtle.ConstantTimeCompare([]byte(token), m.token) != 1 {
			m.logger.Warn("Rejected admin request",
				zap.String("path", req.URL.Path),
				zap.String("remoteAddr", req.RemoteAddr))
			return respond.Error(w, m.logger, types.ErrUnauthorized)
		}

		return next(w, req)
	}
}
