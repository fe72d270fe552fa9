package database

import (
	"github.com/socialfolio/folio/internal/clock"
	"github.com/socialfolio/folio/internal/database/service"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ServiceOptions carries the collaborators shared by every service.
type ServiceOptions struct {
	Clock    clock.Clock
	Notifier service.Notifier
	Contest  service.ContestOptions
}

// Service provides access to all business logic services.
type Service struct {
	contest *service.ContestService
	social  *service.SocialService
}

// NewService creates a new service instance with all services.
func NewService(db *bun.DB, repository *Repository, opts ServiceOptions, logger *zap.Logger) *Service {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Notifier == nil {
		opts.Notifier = service.NopNotifier{}
	}

	return &Service{
		contest: service.NewContest(
			db,
			repository.User(),
			repository.Contest(),
			repository.Application(),
			repository.Vote(),
			opts.Clock,
			opts.Contest,
			logger,
		),
		social: service.NewSocial(
			db,
			repository.User(),
			repository.FriendRequest(),
			repository.Notification(),
			opts.Notifier,
			opts.Clock,
			logger,
		),
	}
}

// Contest returns the contest service.
func (s *Service) Contest() *service.ContestService {
	return s.contest
}

// Social returns the social service.
func (s *Service) Social() *service.SocialService {
	return s.social
}
