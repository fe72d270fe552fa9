package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/socialfolio/folio/internal/clock"
	"github.com/socialfolio/folio/internal/database"
	"github.com/socialfolio/folio/internal/database/dbtest"
	"github.com/socialfolio/folio/internal/database/service"
	"github.com/socialfolio/folio/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap/zaptest"
)

var start = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []*types.Notification
}

func (n *recordingNotifier) Dispatch(_ context.Context, notification *types.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
}

func (n *recordingNotifier) all() []*types.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*types.Notification(nil), n.sent...)
}

type fixture struct {
	db       *bun.DB
	repo     *database.Repository
	clock    *clock.Manual
	notifier *recordingNotifier
	contest  *service.ContestService
	social   *service.SocialService
}

func setup(t *testing.T, opts service.ContestOptions) *fixture {
	t.Helper()

	db := dbtest.New(t)
	logger := zaptest.NewLogger(t)
	clk := clock.NewManual(start)
	notifier := &recordingNotifier{}

	repo := database.NewRepository(db, logger)
	services := database.NewService(db, repo, database.ServiceOptions{
		Clock:    clk,
		Notifier: notifier,
		Contest:  opts,
	}, logger)

	return &fixture{
		db:       db,
		repo:     repo,
		clock:    clk,
		notifier: notifier,
		contest:  services.Contest(),
		social:   services.Social(),
	}
}
