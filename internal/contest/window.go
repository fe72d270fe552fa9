// Package contest holds the pure contest rules: which contest is active at a
// given instant and how applications are ranked.
package contest

import (
	"time"

	"github.com/socialfolio/folio/internal/database/types"
	"go.uber.org/zap"
)

// WindowManager decides which contest is active and whether it accepts
// applications and votes.
type WindowManager struct {
	logger *zap.Logger
}

// NewWindowManager creates a WindowManager.
func NewWindowManager(logger *zap.Logger) *WindowManager {
	return &WindowManager{
		logger: logger.Named("contest_window"),
	}
}

// ResolveActive picks the single active contest at now.
//
// Among active contests whose window contains now, the one that started last
// wins, ties going to the lowest ID. If no active contest is in its window the
// lowest-ID active contest is returned and a degraded state is logged. Returns
// nil when no contest is active.
func (m *WindowManager) ResolveActive(contests []*types.Contest, now time.Time) *types.Contest {
	var (
		inWindow *types.Contest
		fallback *types.Contest
	)

	for _, c := range contests {
		if c == nil || !c.IsActive {
			continue
		}

		if fallback == nil || c.ID < fallback.ID {
			fallback = c
		}

		if !IsOpen(c, now) {
			continue
		}

		if inWindow == nil ||
			c.StartTime.After(inWindow.StartTime) ||
			(c.StartTime.Equal(inWindow.StartTime) && c.ID < inWindow.ID) {
			inWindow = c
		}
	}

	if inWindow != nil {
		return inWindow
	}

	if fallback != nil {
		m.logger.Warn("No active contest is within its window, using degraded fallback",
			zap.Int64("contestID", fallback.ID),
			zap.Time("start", fallback.StartTime),
			zap.Time("end", fallback.EndTime),
			zap.Time("now", now))
	}

	return fallback
}

// IsOpen reports whether the contest is active and now lies in [start, end).
func IsOpen(c *types.Contest, now time.Time) bool {
	if c == nil || !c.IsActive {
		return false
	}
	return !now.Before(c.StartTime) && now.Before(c.EndTime)
}
