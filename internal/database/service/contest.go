package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/socialfolio/folio/internal/clock"
	"github.com/socialfolio/folio/internal/contest"
	"github.com/socialfolio/folio/internal/database/models"
	"github.com/socialfolio/folio/internal/database/types"
	"github.com/socialfolio/folio/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ContestOptions configures contest behavior.
type ContestOptions struct {
	// AllContestsLeaderboard ranks every application ever submitted instead of
	// only those of the active contest.
	AllContestsLeaderboard bool
}

// ContestService handles voting contest business logic.
type ContestService struct {
	db           *bun.DB
	users        *models.UserModel
	contests     *models.ContestModel
	applications *models.ApplicationModel
	votes        *models.VoteModel
	window       *contest.WindowManager
	clock        clock.Clock
	opts         ContestOptions
	logger       *zap.Logger
}

// NewContest creates a new contest service.
func NewContest(
	db *bun.DB,
	users *models.UserModel,
	contests *models.ContestModel,
	applications *models.ApplicationModel,
	votes *models.VoteModel,
	clk clock.Clock,
	opts ContestOptions,
	logger *zap.Logger,
) *ContestService {
	return &ContestService{
		db:           db,
		users:        users,
		contests:     contests,
		applications: applications,
		votes:        votes,
		window:       contest.NewWindowManager(logger),
		clock:        clk,
		opts:         opts,
		logger:       logger.Named("contest_service"),
	}
}

// resolveActive loads the active contests and picks the one in effect at now.
func (s *ContestService) resolveActive(ctx context.Context, db bun.IDB, now time.Time) (*types.Contest, error) {
	contests, err := s.contests.ListActive(ctx, db)
	if err != nil {
		return nil, err
	}
	return s.window.ResolveActive(contests, now), nil
}

// GetActiveContest returns the contest currently in effect.
func (s *ContestService) GetActiveContest(ctx context.Context) (*types.Contest, error) {
	active, err := s.resolveActive(ctx, s.db, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active contest: %w", err)
	}
	if active == nil {
		return nil, types.ErrNoActiveContest
	}
	return active, nil
}

// Apply enters the user into the active contest with the given image.
// The email must match the user's registered email.
func (s *ContestService) Apply(ctx context.Context, userID int64, email, imageURL string) (*types.Application, error) {
	email = strings.TrimSpace(email)
	imageURL = strings.TrimSpace(imageURL)
	if email == "" {
		return nil, types.ErrMissingEmail
	}
	if imageURL == "" {
		return nil, types.ErrMissingImage
	}

	now := s.clock.Now()

	var app *types.Application
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := s.users.GetByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !strings.EqualFold(user.Email, email) {
			return types.ErrEmailMismatch
		}

		active, err := s.resolveActive(ctx, tx, now)
		if err != nil {
			return err
		}
		if active == nil {
			return types.ErrNoActiveContest
		}
		if !contest.IsOpen(active, now) {
			return types.ErrContestNotOpen
		}

		exists, err := s.applications.Exists(ctx, tx, userID, active.ID)
		if err != nil {
			return err
		}
		if exists {
			return types.ErrDuplicateApplication
		}

		app = &types.Application{
			UserID:    userID,
			ContestID: active.ID,
			Status:    enum.ApplicationStatusPending,
			ImageURL:  imageURL,
			AppliedAt: now,
		}
		return s.applications.Create(ctx, tx, app)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply: %w", err)
	}

	s.logger.Info("Application submitted",
		zap.Int64("applicationID", app.ID),
		zap.Int64("userID", userID),
		zap.Int64("contestID", app.ContestID))

	return app, nil
}

// ListApplications returns a contest's applications with the given status.
func (s *ContestService) ListApplications(
	ctx context.Context, contestID int64, status enum.ApplicationStatus,
) ([]*types.Application, error) {
	if !status.Valid() {
		return nil, types.ErrInvalidStatus
	}
	return s.applications.ListByContestAndStatus(ctx, contestID, status)
}

// ListPendingApplications returns the active contest's applications awaiting review.
func (s *ContestService) ListPendingApplications(ctx context.Context) ([]*types.Application, error) {
	return s.listActiveByStatus(ctx, enum.ApplicationStatusPending)
}

// ListApprovedApplications returns the active contest's approved applications.
func (s *ContestService) ListApprovedApplications(ctx context.Context) ([]*types.Application, error) {
	return s.listActiveByStatus(ctx, enum.ApplicationStatusApproved)
}

func (s *ContestService) listActiveByStatus(
	ctx context.Context, status enum.ApplicationStatus,
) ([]*types.Application, error) {
	active, err := s.resolveActive(ctx, s.db, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active contest: %w", err)
	}
	if active == nil {
		return []*types.Application{}, nil
	}
	return s.applications.ListByContestAndStatus(ctx, active.ID, status)
}

// CastVote records one vote by voterID for an application.
//
// Unknown voters or applications are not found. Otherwise the application's
// contest must be open, the voter must not own the application and must not
// have voted for it before. Of several concurrent identical votes exactly one
// succeeds; the rest fail with ErrDuplicateVote.
func (s *ContestService) CastVote(ctx context.Context, voterID, applicationID int64) (*types.Vote, error) {
	now := s.clock.Now()

	var vote *types.Vote
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.users.GetByID(ctx, tx, voterID); err != nil {
			return err
		}

		app, err := s.applications.GetByID(ctx, tx, applicationID)
		if err != nil {
			return err
		}

		c, err := s.contests.GetByID(ctx, tx, app.ContestID)
		if err != nil {
			return err
		}
		if !contest.IsOpen(c, now) {
			return types.ErrContestNotOpen
		}

		if app.UserID == voterID {
			return types.ErrSelfVote
		}

		exists, err := s.votes.Exists(ctx, tx, voterID, applicationID)
		if err != nil {
			return err
		}
		if exists {
			return types.ErrDuplicateVote
		}

		vote = &types.Vote{
			VoterID:       voterID,
			ApplicationID: applicationID,
			VotedAt:       now,
		}
		return s.votes.Create(ctx, tx, vote)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cast vote: %w", err)
	}

	s.logger.Debug("Vote recorded",
		zap.Int64("voterID", voterID),
		zap.Int64("applicationID", applicationID))

	return vote, nil
}

// CountFor returns the number of votes recorded for an application.
func (s *ContestService) CountFor(ctx context.Context, applicationID int64) (int, error) {
	if _, err := s.applications.GetByID(ctx, s.db, applicationID); err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return s.votes.CountFor(ctx, applicationID)
}

// TopContestants ranks applications by vote count and returns the first n,
// together with the active contest's end.
func (s *ContestService) TopContestants(ctx context.Context, n int) (*types.Leaderboard, error) {
	if n <= 0 {
		return nil, types.ErrInvalidLimit
	}

	active, err := s.resolveActive(ctx, s.db, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active contest: %w", err)
	}

	board := &types.Leaderboard{Contestants: []types.Contestant{}}
	if active != nil {
		end := active.EndTime
		board.ContestEnd = &end
	}

	var contestID *int64
	if !s.opts.AllContestsLeaderboard {
		if active == nil {
			return board, nil
		}
		contestID = &active.ID
	}

	entries, err := s.applications.ListEntries(ctx, contestID)
	if err != nil {
		return nil, err
	}

	counts, err := s.votes.CountByContest(ctx, contestID)
	if err != nil {
		return nil, err
	}

	board.Contestants = contest.Rank(entries, counts, n)
	return board, nil
}

// ContestStatus summarizes the active contest. TotalApplications counts the
// applications still awaiting review.
func (s *ContestService) ContestStatus(ctx context.Context) (*types.ContestStatus, error) {
	now := s.clock.Now()

	active, err := s.resolveActive(ctx, s.db, now)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active contest: %w", err)
	}
	if active == nil {
		return nil, types.ErrNoActiveContest
	}

	pending, err := s.applications.CountByContestAndStatus(ctx, active.ID, enum.ApplicationStatusPending)
	if err != nil {
		return nil, err
	}

	start, end := active.StartTime, active.EndTime
	return &types.ContestStatus{
		Active:            true,
		ContestID:         active.ID,
		Title:             active.Title,
		StartTime:         &start,
		EndTime:           &end,
		Open:              contest.IsOpen(active, now),
		TotalApplications: pending,
	}, nil
}

// CreateContest creates a new contest.
func (s *ContestService) CreateContest(ctx context.Context, update *types.ContestUpdate) (*types.Contest, error) {
	if err := validateContest(update); err != nil {
		return nil, err
	}

	c := &types.Contest{
		Title:       strings.TrimSpace(update.Title),
		Description: update.Description,
		StartTime:   update.StartTime.UTC(),
		EndTime:     update.EndTime.UTC(),
		IsActive:    update.IsActive,
	}
	if err := s.contests.Create(ctx, s.db, c); err != nil {
		return nil, err
	}

	s.logger.Info("Contest created",
		zap.Int64("contestID", c.ID),
		zap.Time("start", c.StartTime),
		zap.Time("end", c.EndTime),
		zap.Bool("active", c.IsActive))

	return c, nil
}

// UpdateContest overwrites a contest's title, description, window and active flag.
func (s *ContestService) UpdateContest(
	ctx context.Context, contestID int64, update *types.ContestUpdate,
) (*types.Contest, error) {
	if err := validateContest(update); err != nil {
		return nil, err
	}

	c := &types.Contest{
		ID:          contestID,
		Title:       strings.TrimSpace(update.Title),
		Description: update.Description,
		StartTime:   update.StartTime.UTC(),
		EndTime:     update.EndTime.UTC(),
		IsActive:    update.IsActive,
	}
	if err := s.contests.Update(ctx, s.db, c); err != nil {
		return nil, fmt.Errorf("failed to update contest %d: %w", contestID, err)
	}

	s.logger.Info("Contest updated", zap.Int64("contestID", contestID))

	return c, nil
}

// SetApplicationStatus records an administrator's review decision.
func (s *ContestService) SetApplicationStatus(
	ctx context.Context, applicationID int64, status enum.ApplicationStatus,
) error {
	if !status.Valid() {
		return types.ErrInvalidStatus
	}

	if err := s.applications.UpdateStatus(ctx, s.db, applicationID, status); err != nil {
		return fmt.Errorf("failed to set application status: %w", err)
	}

	s.logger.Info("Application status changed",
		zap.Int64("applicationID", applicationID),
		zap.String("status", status.String()))

	return nil
}

func validateContest(update *types.ContestUpdate) error {
	if strings.TrimSpace(update.Title) == "" {
		return types.ErrInvalidContestName
	}
	if !update.StartTime.Before(update.EndTime) {
		return types.ErrInvalidWindow
	}
	return nil
}
