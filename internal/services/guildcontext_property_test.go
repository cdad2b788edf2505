package services

import (
	"context"
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"wanderguild/internal/repository"
	"wanderguild/pkg/logger"
)

// Property: the selected guild must not depend on the order in which
// membership rows come back from the store, only on the per-guild nearby
// member counts and the guild ID tie-break.
func TestProperty_ResolveIsOrderIndependent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property test in short mode")
	}

	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()

		numGuilds := rapid.IntRange(1, 5).Draw(rt, "numGuilds")
		numMembers := rapid.IntRange(1, 20).Draw(rt, "numMembers")

		guildIDs := make([]string, numGuilds)
		for i := range guildIDs {
			guildIDs[i] = fmt.Sprintf("guild-%d", i)
		}

		members := make([]repository.ApprovedMember, numMembers)
		positions := make(map[string][2]float64)
		for i := range members {
			guild := guildIDs[rapid.IntRange(0, numGuilds-1).Draw(rt, fmt.Sprintf("guild_%d", i))]
			userID := fmt.Sprintf("user-%d", rapid.IntRange(1, 10).Draw(rt, fmt.Sprintf("user_%d", i)))
			members[i] = repository.ApprovedMember{UserID: userID, GuildID: guild, GuildName: guild}

			// Roughly half the members are placed in range.
			if rapid.Bool().Draw(rt, fmt.Sprintf("near_%d", i)) {
				positions[userID] = [2]float64{0.001, 0.001}
			} else {
				positions[userID] = [2]float64{1.0, 1.0}
			}
		}

		resolve := func(ordered []repository.ApprovedMember) *GuildContext {
			memberships := &fakeMembershipRepo{
				approvedGuilds: map[string][]string{"requester": guildIDs},
				members:        ordered,
			}
			locations := &fakeLocationRepo{positions: positions}
			svc := NewGuildContextService(memberships, locations, testRadiusMeters, logger.NewNop())

			result, err := svc.Resolve(ctx, "requester", 0, 0)
			if err != nil {
				rt.Fatalf("resolve failed: %v", err)
			}
			return result
		}

		baseline := resolve(members)

		// Shuffle the membership rows and resolve again.
		shuffled := make([]repository.ApprovedMember, len(members))
		copy(shuffled, members)
		perm := rapid.Permutation(shuffled).Draw(rt, "perm")

		again := resolve(perm)

		if baseline.Mode != again.Mode {
			rt.Fatalf("mode changed with input order: %s vs %s", baseline.Mode, again.Mode)
		}
		if baseline.GuildID != again.GuildID {
			rt.Fatalf("selected guild changed with input order: %s vs %s", baseline.GuildID, again.GuildID)
		}
		if baseline.NearbyMemberCount != again.NearbyMemberCount {
			rt.Fatalf("nearby count changed with input order: %d vs %d", baseline.NearbyMemberCount, again.NearbyMemberCount)
		}
	})
}
