package model

import "time"

// Membership approval states. Only approved memberships participate in
// guild context resolution.
const (
	MembershipApproved = "approved"
	MembershipPending  = "pending"
	MembershipRejected = "rejected"
)

type Guild struct {
	ID   string `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name string `gorm:"not null;type:varchar(255)" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Guild) TableName() string {
	return "guilds"
}

type GuildMembership struct {
	ID      string `gorm:"primaryKey;type:varchar(64)" json:"id"`
	GuildID string `gorm:"not null;type:varchar(64);uniqueIndex:ux_membership_guild_user,priority:1" json:"guild_id"`
	UserID  string `gorm:"index;not null;type:varchar(64);uniqueIndex:ux_membership_guild_user,priority:2" json:"user_id"`
	Status  string `gorm:"not null;default:pending;type:varchar(16)" json:"status"`

	JoinedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"joined_at"`
}

func (GuildMembership) TableName() string {
	return "guild_memberships"
}
