package models

import (
	"context"
	"fmt"

	"github.com/socialfolio/folio/internal/database/dbretry"
	"github.com/socialfolio/folio/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// VoteModel handles database operations for the append-only vote ledger.
type VoteModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewVote creates a new vote model.
func NewVote(db *bun.DB, logger *zap.Logger) *VoteModel {
	return &VoteModel{
		db:     db,
		logger: logger.Named("db_vote"),
	}
}

// Exists checks whether the voter already voted for the application.
func (r *VoteModel) Exists(ctx context.Context, db bun.IDB, voterID, applicationID int64) (bool, error) {
	exists, err := db.NewSelect().
		Model((*types.Vote)(nil)).
		Where("voter_id = ?", voterID).
		Where("application_id = ?", applicationID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}

	return exists, nil
}

// Create appends a vote to the ledger. The (voter_id, application_id) constraint
// rejects a second vote even when two requests race past the existence check.
func (r *VoteModel) Create(ctx context.Context, db bun.IDB, vote *types.Vote) error {
	_, err := db.NewInsert().
		Model(vote).
		Exec(ctx)
	if err != nil {
		if dbretry.IsUniqueViolation(err) {
			return types.ErrDuplicateVote
		}
		return fmt.Errorf("failed to save vote: %w", err)
	}

	return nil
}

// CountFor counts the votes recorded for an application.
func (r *VoteModel) CountFor(ctx context.Context, applicationID int64) (int, error) {
	count, err := r.db.NewSelect().
		Model((*types.Vote)(nil)).
		Where("application_id = ?", applicationID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

// CountByContest counts votes per application. When contestID is nil votes
// for every contest are counted. Applications without votes are omitted.
func (r *VoteModel) CountByContest(ctx context.Context, contestID *int64) (map[int64]int, error) {
	var rows []types.VoteCount
	q := r.db.NewSelect().
		TableExpr("votes AS v").
		ColumnExpr("v.application_id").
		ColumnExpr("COUNT(*) AS votes").
		Group("v.application_id")
	if contestID != nil {
		q = q.Join("JOIN voting_applications AS va ON va.id = v.application_id").
			Where("va.contest_id = ?", *contestID)
	}

	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to count votes by contest: %w", err)
	}

	counts := make(map[int64]int, len(rows))
	for _, row := range rows {
		counts[row.ApplicationID] = row.Votes
	}
	return counts, nil
}
