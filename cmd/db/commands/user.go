package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/socialfolio/folio/internal/database/types"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// UserCommands returns the identity mirror commands.
func UserCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "add-user",
			Usage: "Mirror a user from the profile service",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "email", Usage: "registered email", Required: true},
				&cli.StringFlag{Name: "username", Usage: "unique username", Required: true},
				&cli.StringFlag{Name: "picture", Usage: "profile picture URL"},
			},
			Action: handleAddUser(deps),
		},
		{
			Name:      "find-user",
			Usage:     "Look up a user by email",
			ArgsUsage: "EMAIL",
			Action:    handleFindUser(deps),
		},
	}
}

// handleAddUser handles the 'add-user' command.
func handleAddUser(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		user := &types.User{
			Email:         strings.TrimSpace(c.String("email")),
			Username:      strings.TrimSpace(c.String("username")),
			ProfilePicURL: c.String("picture"),
		}

		if err := deps.DB.Model().User().Create(ctx, user); err != nil {
			return err
		}

		deps.Logger.Info("User added",
			zap.Int64("userID", user.ID),
			zap.String("username", user.Username))
		fmt.Printf("Added user %d (%s)\n", user.ID, user.Username)
		return nil
	}
}

// handleFindUser handles the 'find-user' command.
func handleFindUser(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		email := strings.TrimSpace(c.Args().First())
		if email == "" {
			return ErrEmailRequired
		}

		user, err := deps.DB.Model().User().GetByEmail(ctx, email)
		if err != nil {
			return err
		}

		fmt.Printf("%d\t%s\t%s\n", user.ID, user.Username, user.Email)
		return nil
	}
}
