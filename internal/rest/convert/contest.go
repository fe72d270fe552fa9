package convert

import (
	"github.com/socialfolio/folio/internal/database/types"
	restTypes "github.com/socialfolio/folio/internal/rest/types"
)

// Application converts a database application to the REST type.
func Application(app *types.Application) restTypes.Application {
	return restTypes.Application{
		ID:        app.ID,
		UserID:    app.UserID,
		ContestID: app.ContestID,
		Status:    app.Status.String(),
		ImageURL:  app.ImageURL,
		AppliedAt: app.AppliedAt,
	}
}

// Applications converts a list of applications, never returning nil.
func Applications(apps []*types.Application) []restTypes.Application {
	result := make([]restTypes.Application, 0, len(apps))
	for _, app := range apps {
		result = append(result, Application(app))
	}
	return result
}

// Leaderboard converts a ranked leaderboard.
func Leaderboard(board *types.Leaderboard) restTypes.LeaderboardResponse {
	contestants := make([]restTypes.Contestant, 0, len(board.Contestants))
	for _, c := range board.Contestants {
		contestants = append(contestants, restTypes.Contestant{
			Rank:          c.Rank,
			ApplicationID: c.ApplicationID,
			User:          UserSummary(c.User),
			ImageURL:      c.ImageURL,
			Status:        c.Status.String(),
			Votes:         c.Votes,
		})
	}

	return restTypes.LeaderboardResponse{
		Contestants: contestants,
		ContestEnd:  board.ContestEnd,
	}
}

// ContestStatus converts the active contest summary.
func ContestStatus(status *types.ContestStatus) restTypes.ContestStatusResponse {
	return restTypes.ContestStatusResponse{
		Active:            status.Active,
		ContestID:         status.ContestID,
		Title:             status.Title,
		StartTime:         status.StartTime,
		EndTime:           status.EndTime,
		Open:              status.Open,
		TotalApplications: status.TotalApplications,
	}
}

// Contest converts a contest.
func Contest(c *types.Contest) restTypes.Contest {
	return restTypes.Contest{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		IsActive:    c.IsActive,
	}
}

// ContestUpdate converts a contest request into the service input.
func ContestUpdate(req *restTypes.ContestRequest) *types.ContestUpdate {
	return &types.ContestUpdate{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsActive:    req.IsActive,
	}
}
