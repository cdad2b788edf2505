package services

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"wanderguild/internal/model"
	"wanderguild/internal/repository"
	"wanderguild/pkg/mq"
)

// fakeMembershipRepo serves memberships from memory in insertion order.
type fakeMembershipRepo struct {
	approvedGuilds map[string][]string
	members        []repository.ApprovedMember
}

func (f *fakeMembershipRepo) FindApprovedGuildIDs(_ context.Context, userID string) ([]string, error) {
	return f.approvedGuilds[userID], nil
}

func (f *fakeMembershipRepo) FindApprovedMembers(_ context.Context, guildIDs []string, excludeUserID string) ([]repository.ApprovedMember, error) {
	requested := make(map[string]struct{}, len(guildIDs))
	for _, id := range guildIDs {
		requested[id] = struct{}{}
	}

	var out []repository.ApprovedMember
	for _, member := range f.members {
		if member.UserID == excludeUserID {
			continue
		}
		if _, ok := requested[member.GuildID]; !ok {
			continue
		}
		out = append(out, member)
	}
	return out, nil
}

// fakeLocationRepo serves live locations from memory.
type fakeLocationRepo struct {
	positions map[string][2]float64 // userID -> lat, lng
}

func (f *fakeLocationRepo) FindByUserIDs(_ context.Context, userIDs []string) ([]model.LiveLocation, error) {
	var out []model.LiveLocation
	for _, id := range userIDs {
		pos, ok := f.positions[id]
		if !ok {
			continue
		}
		lat, lng := pos[0], pos[1]
		out = append(out, model.LiveLocation{UserID: id, Latitude: &lat, Longitude: &lng})
	}
	return out, nil
}

func (f *fakeLocationRepo) Update(_ context.Context, userID string, lat, lng float64) error {
	f.positions[userID] = [2]float64{lat, lng}
	return nil
}

func (f *fakeLocationRepo) Remove(_ context.Context, userID string) error {
	delete(f.positions, userID)
	return nil
}

// fakeResolver returns a canned context.
type fakeResolver struct {
	result *GuildContext
}

func (f *fakeResolver) Resolve(context.Context, string, float64, float64) (*GuildContext, error) {
	return f.result, nil
}

// memoryStore backs both the stay reads and the award transaction with the
// same in-memory state, so service tests exercise the real read-then-commit
// flow including rollback and the concurrent claim.
type memoryStore struct {
	mu     sync.Mutex
	stays  map[string]*model.Stay
	scores map[string]int64 // userID + "/" + guildID

	// readBarrier, when set, blocks each FindByID until all expected
	// concurrent readers arrived, forcing them past the idempotency guard
	// before any transaction commits.
	readBarrier *sync.WaitGroup

	failScoreWrite error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		stays:  make(map[string]*model.Stay),
		scores: make(map[string]int64),
	}
}

func (st *memoryStore) addStay(stayID, userID, placeID string) {
	st.stays[stayID] = &model.Stay{ID: stayID, UserID: userID, PlaceID: placeID}
}

func (st *memoryStore) score(userID, guildID string) (int64, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	score, ok := st.scores[userID+"/"+guildID]
	return score, ok
}

func (st *memoryStore) rewardedAt(stayID string) *time.Time {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.stays[stayID].RewardedAt
}

// FindByID implements repository.IStayRepository.
func (st *memoryStore) FindByID(_ context.Context, stayID string) (*model.Stay, error) {
	st.mu.Lock()
	stay, ok := st.stays[stayID]
	var copied model.Stay
	if ok {
		copied = *stay
	}
	st.mu.Unlock()

	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if st.readBarrier != nil {
		st.readBarrier.Done()
		st.readBarrier.Wait()
	}
	return &copied, nil
}

// InAwardTx implements repository.ITxRunner. The mutex serializes
// transactions; an error from fn discards the staged writes.
func (st *memoryStore) InAwardTx(_ context.Context, fn func(tx repository.AwardTx) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	tx := &memoryTx{store: st}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type memoryTx struct {
	store *memoryStore

	claimedStayID string
	claimedAt     time.Time
	scoreKey      string
	scoreDelta    int64
}

func (t *memoryTx) MarkStayRewarded(stayID string, at time.Time) (bool, error) {
	stay, ok := t.store.stays[stayID]
	if !ok || stay.RewardedAt != nil {
		return false, nil
	}
	t.claimedStayID = stayID
	t.claimedAt = at
	return true, nil
}

func (t *memoryTx) UpsertGuildScoreIncrement(userID, guildID string, amount int64) error {
	if t.store.failScoreWrite != nil {
		return t.store.failScoreWrite
	}
	t.scoreKey = userID + "/" + guildID
	t.scoreDelta = amount
	return nil
}

func (t *memoryTx) commit() {
	if t.claimedStayID != "" {
		at := t.claimedAt
		t.store.stays[t.claimedStayID].RewardedAt = &at
	}
	if t.scoreKey != "" {
		t.store.scores[t.scoreKey] += t.scoreDelta
	}
}

// fakeRecommendationRepo recognizes a fixed set of (user, place) pairs.
type fakeRecommendationRepo struct {
	pairs map[string]bool // userID + "/" + placeID
}

func (f *fakeRecommendationRepo) Exists(_ context.Context, userID, placeID string) (bool, error) {
	return f.pairs[userID+"/"+placeID], nil
}

// fakePublisher records published award events.
type fakePublisher struct {
	mu     sync.Mutex
	events []*mq.AwardEvent
}

func (f *fakePublisher) PublishAwardEvent(event *mq.AwardEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) published() []*mq.AwardEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*mq.AwardEvent(nil), f.events...)
}
