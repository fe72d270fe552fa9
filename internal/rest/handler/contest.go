package handler

import (
	"errors"
	"net/http"

	"github.com/socialfolio/folio/internal/database/service"
	"github.com/socialfolio/folio/internal/database/types"
	"github.com/socialfolio/folio/internal/rest/convert"
	"github.com/socialfolio/folio/internal/rest/respond"
	restTypes "github.com/socialfolio/folio/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// ContestHandler handles voting contest endpoints.
type ContestHandler struct {
	contest     *service.ContestService
	defaultTopN int
	maxTopN     int
	logger      *zap.Logger
}

// NewContestHandler creates a new contest handler.
func NewContestHandler(contest *service.ContestService, defaultTopN, maxTopN int, logger *zap.Logger) *ContestHandler {
	return &ContestHandler{
		contest:     contest,
		defaultTopN: defaultTopN,
		maxTopN:     maxTopN,
		logger:      logger.Named("contest_handler"),
	}
}

// Apply enters the caller into the active contest.
func (h *ContestHandler) Apply(w http.ResponseWriter, req bunrouter.Request) error {
	userID, err := callerID(req.Context())
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	var body restTypes.ApplyRequest
	if err := decode(req, &body); err != nil {
		return respond.Error(w, h.logger, err)
	}

	app, err := h.contest.Apply(req.Context(), userID, body.Email, body.ImageURL)
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	return respond.JSON(w, http.StatusCreated, convert.Application(app))
}

// ListPending lists the active contest's applications awaiting review.
func (h *ContestHandler) ListPending(w http.ResponseWriter, req bunrouter.Request) error {
	apps, err := h.contest.ListPendingApplications(req.Context())
	if err != nil {
		return respond.Error(w, h.logger, err)
	}
	return bunrouter.JSON(w, convert.Applications(apps))
}

// ListApproved lists the active contest's approved applications.
func (h *ContestHandler) ListApproved(w http.ResponseWriter, req bunrouter.Request) error {
	apps, err := h.contest.ListApprovedApplications(req.Context())
	if err != nil {
		return respond.Error(w, h.logger, err)
	}
	return bunrouter.JSON(w, convert.Applications(apps))
}

// CastVote records the caller's vote for an application.
func (h *ContestHandler) CastVote(w http.ResponseWriter, req bunrouter.Request) error {
	voterID, err := callerID(req.Context())
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	var body restTypes.VoteRequest
	if err := decode(req, &body); err != nil {
		return respond.Error(w, h.logger, err)
	}

	vote, err := h.contest.CastVote(req.Context(), voterID, body.ApplicationID)
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	return respond.JSON(w, http.StatusCreated, restTypes.Vote{
		ID:            vote.ID,
		ApplicationID: vote.ApplicationID,
		VotedAt:       vote.VotedAt,
	})
}

// CountVotes returns the vote count of one application.
func (h *ContestHandler) CountVotes(w http.ResponseWriter, req bunrouter.Request) error {
	applicationID, err := pathID(req, "id")
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	votes, err := h.contest.CountFor(req.Context(), applicationID)
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	return bunrouter.JSON(w, restTypes.VoteCountResponse{
		ApplicationID: applicationID,
		Votes:         votes,
	})
}

// Top returns the highest voted contestants.
func (h *ContestHandler) Top(w http.ResponseWriter, req bunrouter.Request) error {
	n, err := queryLimit(req, "n", h.defaultTopN, h.maxTopN)
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	board, err := h.contest.TopContestants(req.Context(), n)
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.Leaderboard(board))
}

// Status summarizes the active contest. Without one it reports an inactive
// status rather than an error.
func (h *ContestHandler) Status(w http.ResponseWriter, req bunrouter.Request) error {
	status, err := h.contest.ContestStatus(req.Context())
	if errors.Is(err, types.ErrNoActiveContest) {
		return bunrouter.JSON(w, restTypes.ContestStatusResponse{})
	}
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.ContestStatus(status))
}
