package model

import "time"

// GuildScore accumulates the points a user has earned for a guild. At most
// one row exists per (user, guild) pair; the award path only creates or
// increments it, never decrements.
type GuildScore struct {
	ID      string `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID  string `gorm:"not null;type:varchar(64);uniqueIndex:ux_score_user_guild,priority:1" json:"user_id"`
	GuildID string `gorm:"not null;type:varchar(64);uniqueIndex:ux_score_user_guild,priority:2" json:"guild_id"`
	Score   int64  `gorm:"not null;default:0" json:"score"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (GuildScore) TableName() string {
	return "guild_scores"
}
