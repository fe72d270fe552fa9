package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/socialfolio/folio/internal/database/types"
	"github.com/socialfolio/folio/internal/database/types/enum"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// ContestCommands returns all contest administration commands.
func ContestCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:   "create-contest",
			Usage:  "Create a voting contest",
			Flags:  contestFlags(),
			Action: handleCreateContest(deps),
		},
		{
			Name:      "update-contest",
			Usage:     "Overwrite a contest's title, description, window and active flag",
			ArgsUsage: "ID",
			Flags:     contestFlags(),
			Action:    handleUpdateContest(deps),
		},
		{
			Name:      "set-application-status",
			Usage:     "Approve, reject or reset an application",
			ArgsUsage: "ID STATUS",
			Action:    handleSetApplicationStatus(deps),
		},
		{
			Name:   "pending-applications",
			Usage:  "List the active contest's applications awaiting review",
			Action: handlePendingApplications(deps),
		},
	}
}

func contestFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Usage: "contest title", Required: true},
		&cli.StringFlag{Name: "description", Usage: "contest description"},
		&cli.StringFlag{Name: "start", Usage: "window start (RFC 3339)", Required: true},
		&cli.StringFlag{Name: "end", Usage: "window end, exclusive (RFC 3339)", Required: true},
		&cli.BoolFlag{Name: "active", Usage: "mark the contest active"},
	}
}

// contestUpdate reads the contest flags.
func contestUpdate(c *cli.Command) (*types.ContestUpdate, error) {
	start, err := time.Parse(time.RFC3339, c.String("start"))
	if err != nil {
		return nil, fmt.Errorf("%w: start", ErrInvalidTime)
	}

	end, err := time.Parse(time.RFC3339, c.String("end"))
	if err != nil {
		return nil, fmt.Errorf("%w: end", ErrInvalidTime)
	}

	return &types.ContestUpdate{
		Title:       c.String("title"),
		Description: c.String("description"),
		StartTime:   start,
		EndTime:     end,
		IsActive:    c.Bool("active"),
	}, nil
}

// parseID parses a positive integer argument.
func parseID(raw string) (int64, error) {
	if raw == "" {
		return 0, ErrIDRequired
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// handleCreateContest handles the 'create-contest' command.
func handleCreateContest(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		update, err := contestUpdate(c)
		if err != nil {
			return err
		}

		contest, err := deps.Services.Contest().CreateContest(ctx, update)
		if err != nil {
			return err
		}

		fmt.Printf("Created contest %d (%s)\n", contest.ID, contest.Title)
		return nil
	}
}

// handleUpdateContest handles the 'update-contest' command.
func handleUpdateContest(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		contestID, err := parseID(c.Args().First())
		if err != nil {
			return err
		}

		update, err := contestUpdate(c)
		if err != nil {
			return err
		}

		if _, err := deps.Services.Contest().UpdateContest(ctx, contestID, update); err != nil {
			return err
		}

		fmt.Printf("Updated contest %d\n", contestID)
		return nil
	}
}

// handleSetApplicationStatus handles the 'set-application-status' command.
func handleSetApplicationStatus(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		applicationID, err := parseID(c.Args().Get(0))
		if err != nil {
			return err
		}

		status := enum.ApplicationStatus(c.Args().Get(1))
		if status == "" {
			return ErrStatusRequired
		}

		if err := deps.Services.Contest().SetApplicationStatus(ctx, applicationID, status); err != nil {
			return err
		}

		deps.Logger.Info("Application status updated",
			zap.Int64("applicationID", applicationID),
			zap.String("status", status.String()))
		return nil
	}
}

// handlePendingApplications handles the 'pending-applications' command.
func handlePendingApplications(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		apps, err := deps.Services.Contest().ListPendingApplications(ctx)
		if err != nil {
			return err
		}

		if len(apps) == 0 {
			fmt.Println("No pending applications")
			return nil
		}

		for _, app := range apps {
			fmt.Printf("%d\tuser=%d\t%s\t%s\n",
				app.ID, app.UserID, app.AppliedAt.Format(time.RFC3339), app.ImageURL)
		}
		return nil
	}
}
