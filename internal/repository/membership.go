package repository

import (
	"context"

	"gorm.io/gorm"

	"wanderguild/internal/model"
)

// ApprovedMember is one approved membership row joined with its guild's
// display name, as consumed by guild context resolution.
type ApprovedMember struct {
	UserID    string `json:"user_id"`
	GuildID   string `json:"guild_id"`
	GuildName string `json:"guild_name"`
}

// IGuildMembershipRepository defines read access to approved guild
// memberships. Membership creation and approval belong to the guild
// management service, not to this one.
type IGuildMembershipRepository interface {
	// FindApprovedGuildIDs returns the IDs of every guild the user is an
	// approved member of.
	FindApprovedGuildIDs(ctx context.Context, userID string) ([]string, error)

	// FindApprovedMembers returns the approved memberships in the given
	// guilds, excluding the given user, each joined with the guild name.
	FindApprovedMembers(ctx context.Context, guildIDs []string, excludeUserID string) ([]ApprovedMember, error)
}

// GuildMembershipRepository implements IGuildMembershipRepository over Postgres
type GuildMembershipRepository struct {
	db *gorm.DB
}

// NewGuildMembershipRepository creates a new IGuildMembershipRepository instance
func NewGuildMembershipRepository(db *gorm.DB) IGuildMembershipRepository {
	return &GuildMembershipRepository{db: db}
}

// FindApprovedGuildIDs returns the IDs of the user's approved guilds
func (r *GuildMembershipRepository) FindApprovedGuildIDs(ctx context.Context, userID string) ([]string, error) {
	var guildIDs []string
	err := r.db.WithContext(ctx).
		Model(&model.GuildMembership{}).
		Where("user_id = ? AND status = ?", userID, model.MembershipApproved).
		Pluck("guild_id", &guildIDs).Error
	if err != nil {
		return nil, err
	}
	return guildIDs, nil
}

// FindApprovedMembers returns approved members of the given guilds, excluding
// the requesting user, with guild names resolved in the same query
func (r *GuildMembershipRepository) FindApprovedMembers(ctx context.Context, guildIDs []string, excludeUserID string) ([]ApprovedMember, error) {
	if len(guildIDs) == 0 {
		return nil, nil
	}

	var members []ApprovedMember
	err := r.db.WithContext(ctx).
		Table("guild_memberships").
		Select("guild_memberships.user_id, guild_memberships.guild_id, guilds.name AS guild_name").
		Joins("JOIN guilds ON guilds.id = guild_memberships.guild_id").
		Where("guild_memberships.guild_id IN ?", guildIDs).
		Where("guild_memberships.user_id <> ?", excludeUserID).
		Where("guild_memberships.status = ?", model.MembershipApproved).
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
