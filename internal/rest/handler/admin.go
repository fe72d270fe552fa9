package handler

import (
	"net/http"

	"github.com/socialfolio/folio/internal/database/service"
	"github.com/socialfolio/folio/internal/database/types/enum"
	"github.com/socialfolio/folio/internal/rest/convert"
	"github.com/socialfolio/folio/internal/rest/respond"
	restTypes "github.com/socialfolio/folio/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// AdminHandler handles contest administration endpoints.
type AdminHandler struct {
	contest *service.ContestService
	logger  *zap.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(contest *service.ContestService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		contest: contest,
		logger:  logger.Named("admin_handler"),
	}
}

// CreateContest creates a contest.
func (h *AdminHandler) CreateContest(w http.ResponseWriter, req bunrouter.Request) error {
	var body restTypes.ContestRequest
	if err := decode(req, &body); err != nil {
		return respond.Error(w, h.logger, err)
	}

	c, err := h.contest.CreateContest(req.Context(), convert.ContestUpdate(&body))
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	return respond.JSON(w, http.StatusCreated, convert.Contest(c))
}

// UpdateContest overwrites a contest.
func (h *AdminHandler) UpdateContest(w http.ResponseWriter, req bunrouter.Request) error {
	contestID, err := pathID(req, "id")
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	var body restTypes.ContestRequest
	if err := decode(req, &body); err != nil {
		return respond.Error(w, h.logger, err)
	}

	c, err := h.contest.UpdateContest(req.Context(), contestID, convert.ContestUpdate(&body))
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.Contest(c))
}

// SetApplicationStatus records a review decision.
func (h *AdminHandler) SetApplicationStatus(w http.ResponseWriter, req bunrouter.Request) error {
	applicationID, err := pathID(req, "id")
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	var body restTypes.ApplicationStatusRequest
	if err := decode(req, &body); err != nil {
		return respond.Error(w, h.logger, err)
	}

	err = h.contest.SetApplicationStatus(req.Context(), applicationID, enum.ApplicationStatus(body.Status))
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
