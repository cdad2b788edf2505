package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wanderguild/internal/model"
)

// AwardTx exposes the two writes of the award path. Both run inside the same
// database transaction: either the stay is marked rewarded and the score
// credited, or neither happens.
type AwardTx interface {
	// MarkStayRewarded sets rewarded_at on the stay only if it is still
	// null. Reports false when a concurrent caller already claimed it.
	MarkStayRewarded(stayID string, at time.Time) (bool, error)

	// UpsertGuildScoreIncrement creates the (user, guild) score row with
	// amount, or adds amount to the existing row.
	UpsertGuildScoreIncrement(userID, guildID string, amount int64) error
}

// ITxRunner runs the award write step as one all-or-nothing transaction.
// Returning an error from fn rolls everything back.
type ITxRunner interface {
	InAwardTx(ctx context.Context, fn func(tx AwardTx) error) error
}

// TxRunner implements ITxRunner over Postgres
type TxRunner struct {
	db *gorm.DB
}

// NewTxRunner creates a new ITxRunner instance
func NewTxRunner(db *gorm.DB) ITxRunner {
	return &TxRunner{db: db}
}

// InAwardTx opens a database transaction and hands fn an AwardTx bound to it
func (r *TxRunner) InAwardTx(ctx context.Context, fn func(tx AwardTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&awardTx{tx: tx})
	})
}

type awardTx struct {
	tx *gorm.DB
}

// MarkStayRewarded is a conditional update so that two racing award calls
// cannot both claim the stay: exactly one sees RowsAffected == 1.
func (t *awardTx) MarkStayRewarded(stayID string, at time.Time) (bool, error) {
	res := t.tx.Model(&model.Stay{}).
		Where("id = ? AND rewarded_at IS NULL", stayID).
		Update("rewarded_at", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpsertGuildScoreIncrement relies on the unique (user_id, guild_id) index
// on guild_scores for its conflict target.
func (t *awardTx) UpsertGuildScoreIncrement(userID, guildID string, amount int64) error {
	score := &model.GuildScore{
		ID:      uuid.New().String(),
		UserID:  userID,
		GuildID: guildID,
		Score:   amount,
	}
	return t.tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "guild_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score":      gorm.Expr("guild_scores.score + ?", amount),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(score).Error
}
