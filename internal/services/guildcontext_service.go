package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"wanderguild/internal/repository"
	"wanderguild/pkg/geo"
	"wanderguild/pkg/logger"
)

// ContextMode is the operating context of a visit: acting alone, or acting
// together with co-located guild members.
type ContextMode string

const (
	ModePersonal ContextMode = "PERSONAL"
	ModeGuild    ContextMode = "GUILD"
)

// GuildContext is the result of resolving a user's current context. In
// PERSONAL mode the guild fields are empty; in GUILD mode GuildID names the
// single active guild and NearbyMemberCount the distinct other members of it
// within the proximity radius.
type GuildContext struct {
	Mode              ContextMode `json:"mode"`
	GuildID           string      `json:"guild_id,omitempty"`
	GuildName         string      `json:"guild_name,omitempty"`
	NearbyMemberCount int         `json:"nearby_member_count"`
}

// ContextResolver resolves the acting context for a user at a position.
type ContextResolver interface {
	Resolve(ctx context.Context, userID string, lat, lng float64) (*GuildContext, error)
}

// GuildContextService implements ContextResolver against the membership and
// live location stores. It keeps no state of its own; every call re-reads
// the backing stores.
type GuildContextService struct {
	memberships  repository.IGuildMembershipRepository
	locations    repository.ILiveLocationRepository
	radiusMeters float64
	logger       *logger.Logger
}

// NewGuildContextService creates a resolver with the given proximity radius
// in meters. The boundary is inclusive: a member exactly at the radius still
// counts as nearby.
func NewGuildContextService(
	memberships repository.IGuildMembershipRepository,
	locations repository.ILiveLocationRepository,
	radiusMeters float64,
	log *logger.Logger,
) *GuildContextService {
	return &GuildContextService{
		memberships:  memberships,
		locations:    locations,
		radiusMeters: radiusMeters,
		logger:       log,
	}
}

// guildCandidate accumulates the distinct nearby members of one guild.
type guildCandidate struct {
	guildID   string
	guildName string
	members   map[string]struct{}
}

// Resolve determines whether the user is acting in PERSONAL or GUILD mode at
// the given coordinates. GUILD mode requires at least one other approved
// member of one of the user's guilds within the proximity radius; among
// qualifying guilds the one with the most distinct nearby members wins, with
// ties broken by the lexicographically smallest guild ID.
func (s *GuildContextService) Resolve(ctx context.Context, userID string, lat, lng float64) (*GuildContext, error) {
	guildIDs, err := s.memberships.FindApprovedGuildIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load memberships for user %s: %w", userID, err)
	}
	if len(guildIDs) == 0 {
		return &GuildContext{Mode: ModePersonal}, nil
	}

	members, err := s.memberships.FindApprovedMembers(ctx, guildIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fellow members for user %s: %w", userID, err)
	}
	if len(members) == 0 {
		return &GuildContext{Mode: ModePersonal}, nil
	}

	memberIDs := distinctUserIDs(members)
	locations, err := s.locations.FindByUserIDs(ctx, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load live locations: %w", err)
	}

	positions := make(map[string][2]float64, len(locations))
	for _, loc := range locations {
		if !loc.HasCoordinates() {
			continue
		}
		positions[loc.UserID] = [2]float64{*loc.Latitude, *loc.Longitude}
	}

	candidates := make(map[string]*guildCandidate)
	for _, member := range members {
		pos, ok := positions[member.UserID]
		if !ok {
			continue
		}
		if geo.DistanceMeters(lat, lng, pos[0], pos[1]) > s.radiusMeters {
			continue
		}

		candidate, ok := candidates[member.GuildID]
		if !ok {
			candidate = &guildCandidate{
				guildID:   member.GuildID,
				guildName: member.GuildName,
				members:   make(map[string]struct{}),
			}
			candidates[member.GuildID] = candidate
		}
		candidate.members[member.UserID] = struct{}{}
	}

	if len(candidates) == 0 {
		return &GuildContext{Mode: ModePersonal}, nil
	}

	ranked := make([]*guildCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		ranked = append(ranked, candidate)
	}
	// Deterministic selection: most nearby members first, smallest guild ID
	// on equal counts. Map iteration order must not leak into the result.
	sort.Slice(ranked, func(i, j int) bool {
		if len(ranked[i].members) != len(ranked[j].members) {
			return len(ranked[i].members) > len(ranked[j].members)
		}
		return ranked[i].guildID < ranked[j].guildID
	})

	selected := ranked[0]
	s.logger.DebugContext(ctx, "resolved guild context",
		zap.String("user_id", userID),
		zap.String("guild_id", selected.guildID),
		zap.Int("nearby_members", len(selected.members)),
	)

	return &GuildContext{
		Mode:              ModeGuild,
		GuildID:           selected.guildID,
		GuildName:         selected.guildName,
		NearbyMemberCount: len(selected.members),
	}, nil
}

// distinctUserIDs extracts the unique user IDs from the membership rows,
// preserving first-seen order.
func distinctUserIDs(members []repository.ApprovedMember) []string {
	seen := make(map[string]struct{}, len(members))
	ids := make([]string, 0, len(members))
	for _, member := range members {
		if _, ok := seen[member.UserID]; ok {
			continue
		}
		seen[member.UserID] = struct{}{}
		ids = append(ids, member.UserID)
	}
	return ids
}
