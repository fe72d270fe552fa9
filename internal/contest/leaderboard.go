package contest

import (
	"cmp"
	"slices"

	"github.com/socialfolio/folio/internal/database/types"
)

// Rank orders applications by vote count, highest first, breaking ties by
// ascending application ID, and returns at most n contestants. Applications
// missing from counts have zero votes.
func Rank(entries []*types.ApplicationEntry, counts map[int64]int, n int) []types.Contestant {
	if n <= 0 || len(entries) == 0 {
		return []types.Contestant{}
	}

	ranked := make([]types.Contestant, 0, len(entries))
	for _, e := range entries {
		ranked = append(ranked, types.Contestant{
			ApplicationID: e.ID,
			User: types.UserSummary{
				ID:            e.UserID,
				Username:      e.Username,
				ProfilePicURL: e.ProfilePicURL,
			},
			ImageURL: e.ImageURL,
			Status:   e.Status,
			Votes:    counts[e.ID],
		})
	}

	slices.SortFunc(ranked, func(a, b types.Contestant) int {
		if c := cmp.Compare(b.Votes, a.Votes); c != 0 {
			return c
		}
		return cmp.Compare(a.ApplicationID, b.ApplicationID)
	})

	ranked = ranked[:min(n, len(ranked))]
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}
