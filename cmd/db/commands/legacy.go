package commands

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/socialfolio/folio/internal/database/types"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// ErrMalformedEdge is returned for a CSV row that is not two user IDs.
var ErrMalformedEdge = errors.New("malformed follow edge")

// LegacyCommands returns the one-time legacy follow import.
func LegacyCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:      "import-legacy-follows",
			Usage:     "Convert exported follower_id,followed_id rows into accepted friend requests",
			ArgsUsage: "FILE",
			Action:    handleImportLegacyFollows(deps),
		},
	}
}

// handleImportLegacyFollows handles the 'import-legacy-follows' command.
func handleImportLegacyFollows(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 1 {
			return ErrFileRequired
		}

		file, err := os.Open(c.Args().First())
		if err != nil {
			return fmt.Errorf("failed to open legacy follows: %w", err)
		}
		defer file.Close()

		edges, err := ReadFollowEdges(file)
		if err != nil {
			return err
		}

		result, err := deps.Services.Social().ImportLegacyFollows(ctx, edges)
		if err != nil {
			return err
		}

		deps.Logger.Info("Legacy follows imported",
			zap.Int("rows", len(edges)),
			zap.Int("created", result.Created),
			zap.Int("accepted", result.Accepted),
			zap.Int("skipped", result.Skipped))
		return nil
	}
}

// ReadFollowEdges parses follower_id,followed_id rows. A leading header row
// is skipped.
func ReadFollowEdges(r io.Reader) ([]types.FollowEdge, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var edges []types.FollowEdge
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return edges, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read legacy follows: %w", err)
		}

		if line == 1 && strings.EqualFold(record[0], "follower_id") {
			continue
		}

		follower, errFollower := strconv.ParseInt(record[0], 10, 64)
		followed, errFollowed := strconv.ParseInt(record[1], 10, 64)
		if errFollower != nil || errFollowed != nil {
			return nil, fmt.Errorf("%w on line %d: %q", ErrMalformedEdge, line, strings.Join(record, ","))
		}

		edges = append(edges, types.FollowEdge{FollowerID: follower, FollowedID: followed})
	}
}
