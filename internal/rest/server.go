package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/socialfolio/folio/internal/database"
	"github.com/socialfolio/folio/internal/rest/handler"
	"github.com/socialfolio/folio/internal/rest/middleware/admin"
	"github.com/socialfolio/folio/internal/rest/middleware/identity"
	"github.com/socialfolio/folio/internal/rest/middleware/requestid"
	"github.com/socialfolio/folio/internal/rest/respond"
	"github.com/socialfolio/folio/internal/setup/config"
	"github.com/uptrace/bunrouter"
	"github.com/uptrace/bunrouter/extra/bunrouterotel"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the REST API serves from.
type Dependencies struct {
	Services *database.Service
	// Inbox is nil when Redis delivery is disabled.
	Inbox handler.Inbox
	Ping  func(ctx context.Context) error
}

// Server implements the REST API service.
type Server struct {
	contestHandler      *handler.ContestHandler
	socialHandler       *handler.SocialHandler
	notificationHandler *handler.NotificationHandler
	adminHandler        *handler.AdminHandler
	ping                func(ctx context.Context) error
	logger              *zap.Logger
}

// NewServer creates a new REST API server.
func NewServer(deps Dependencies, cfg *config.Config, logger *zap.Logger) http.Handler {
	contestCfg := cfg.Common.Contest

	server := &Server{
		contestHandler: handler.NewContestHandler(
			deps.Services.Contest(), contestCfg.DefaultTopN, contestCfg.MaxTopN, logger,
		),
		socialHandler: handler.NewSocialHandler(
			deps.Services.Social(), contestCfg.DefaultTopN, contestCfg.MaxTopN, logger,
		),
		notificationHandler: handler.NewNotificationHandler(deps.Services.Social(), deps.Inbox, logger),
		adminHandler:        handler.NewAdminHandler(deps.Services.Contest(), logger),
		ping:                deps.Ping,
		logger:              logger.Named("rest"),
	}

	// Create middleware instances
	requestIDMiddleware := requestid.New(time.Duration(cfg.REST.RequestTimeout)*time.Millisecond, logger)
	identityMiddleware := identity.New(cfg.REST.IdentityHeader, logger)
	adminMiddleware := admin.New(cfg.REST.AdminToken, logger)

	router := bunrouter.New(
		bunrouter.Use(bunrouterotel.NewMiddleware(bunrouterotel.WithClientIP())),
		bunrouter.Use(requestIDMiddleware.AsRESTMiddleware),
	)

	router.GET("/healthz", server.health)

	router.WithGroup("/v1", func(g *bunrouter.Group) {
		// Public reads
		g.GET("/contest/top", server.contestHandler.Top)
		g.GET("/contest/status", server.contestHandler.Status)
		g.GET("/contest/applications/approved", server.contestHandler.ListApproved)
		g.GET("/contest/applications/:id/votes", server.contestHandler.CountVotes)
		g.GET("/users/most-followed", server.socialHandler.MostFollowed)
		g.GET("/users/:id/followers", server.socialHandler.Followers)
		g.GET("/users/:id/following", server.socialHandler.Following)

		g.GET("/contest/applications", adminMiddleware.AsRESTMiddleware(server.contestHandler.ListPending))

		// Caller-scoped operations
		g.Use(identityMiddleware.AsRESTMiddleware).WithGroup("", func(g *bunrouter.Group) {
			g.POST("/contest/applications", server.contestHandler.Apply)
			g.POST("/contest/votes", server.contestHandler.CastVote)

			g.GET("/users/me/friend-requests", server.socialHandler.PendingRequests)
			g.POST("/users/:id/friend-request", server.socialHandler.SendRequest)
			g.DELETE("/users/:id/friend-request", server.socialHandler.CancelRequest)
			g.POST("/users/:id/friend-request/accept", server.socialHandler.AcceptRequest)
			g.POST("/users/:id/friend-request/decline", server.socialHandler.DeclineRequest)
			g.POST("/users/:id/follow", server.socialHandler.Follow)
			g.DELETE("/users/:id/follow", server.socialHandler.Unfollow)
			g.DELETE("/users/:id/follower", server.socialHandler.RemoveFollower)

			g.GET("/notifications", server.notificationHandler.List)
			g.GET("/notifications/inbox", server.notificationHandler.Inbox)
			g.PATCH("/notifications/:id/read", server.notificationHandler.MarkRead)
		})

		// Contest administration
		g.Use(adminMiddleware.AsRESTMiddleware).WithGroup("/admin", func(g *bunrouter.Group) {
			g.POST("/contests", server.adminHandler.CreateContest)
			g.PUT("/contests/:id", server.adminHandler.UpdateContest)
			g.PUT("/applications/:id/status", server.adminHandler.SetApplicationStatus)
		})
	})

	// Add gzip compression
	return gzhttp.GzipHandler(router)
}

// health reports whether the store is reachable.
func (s *Server) health(w http.ResponseWriter, req bunrouter.Request) error {
	if s.ping != nil {
		if err := s.ping(req.Context()); err != nil {
			s.logger.Warn("Health check failed", zap.Error(err))
			return respond.JSON(w, http.StatusServiceUnavailable, bunrouter.H{"status": "unavailable"})
		}
	}
	return bunrouter.JSON(w, bunrouter.H{"status": "ok"})
}
