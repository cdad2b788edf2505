package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wanderguild/internal/repository"
	"wanderguild/pkg/logger"
	"wanderguild/pkg/mq"
)

// AwardOutcome classifies the result of one award attempt. Only
// OutcomeAwarded grants points; the others are expected, frequent outcomes
// except OutcomePersistenceFailure, which indicates a failed or rolled-back
// write and is the one worth alerting on.
type AwardOutcome string

const (
	OutcomeAwarded            AwardOutcome = "awarded"
	OutcomeStayNotFound       AwardOutcome = "stay_not_found"
	OutcomeAlreadyAwarded     AwardOutcome = "already_awarded"
	OutcomeNotRecommended     AwardOutcome = "not_recommended"
	OutcomePersonalContext    AwardOutcome = "personal_context"
	OutcomePersistenceFailure AwardOutcome = "persistence_failure"
)

// AwardService decides whether a visit earns guild points and, when it does,
// commits the stay reward mark and the score credit as one transaction.
type AwardService struct {
	stays           repository.IStayRepository
	recommendations repository.IRecommendationRepository
	resolver        ContextResolver
	txRunner        repository.ITxRunner
	publisher       mq.AwardEventPublisher // optional, nil disables events
	points          int64
	logger          *logger.Logger
	now             func() time.Time
}

// NewAwardService creates an awarder granting the given number of points per
// rewarded stay. publisher may be nil when no event stream is configured.
func NewAwardService(
	stays repository.IStayRepository,
	recommendations repository.IRecommendationRepository,
	resolver ContextResolver,
	txRunner repository.ITxRunner,
	publisher mq.AwardEventPublisher,
	points int64,
	log *logger.Logger,
) *AwardService {
	return &AwardService{
		stays:           stays,
		recommendations: recommendations,
		resolver:        resolver,
		txRunner:        txRunner,
		publisher:       publisher,
		points:          points,
		logger:          log,
		now:             time.Now,
	}
}

// Award reports whether this call granted a new reward for the stay. All
// non-awarded outcomes collapse to false; err is non-nil only when a backing
// store failed. Re-invoking after a successful award is a safe no-op.
func (s *AwardService) Award(ctx context.Context, userID, stayID, placeID string, lat, lng float64) (bool, error) {
	outcome, err := s.AwardDetailed(ctx, userID, stayID, placeID, lat, lng)
	return outcome == OutcomeAwarded, err
}

// AwardDetailed is Award with the outcome kind exposed for in-process
// callers that need to distinguish why no reward was granted.
func (s *AwardService) AwardDetailed(ctx context.Context, userID, stayID, placeID string, lat, lng float64) (AwardOutcome, error) {
	log := s.logger.WithContext(ctx).WithFields(
		zap.String("user_id", userID),
		zap.String("stay_id", stayID),
		zap.String("place_id", placeID),
	)

	// Step 1: the stay must exist.
	stay, err := s.stays.FindByID(ctx, stayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Debug("award skipped", zap.String("outcome", string(OutcomeStayNotFound)))
			return OutcomeStayNotFound, nil
		}
		log.Error("award failed reading stay", zap.Error(err))
		return OutcomePersistenceFailure, fmt.Errorf("failed to load stay %s: %w", stayID, err)
	}

	// Step 2: idempotency guard. The authoritative check is the conditional
	// update inside the transaction below; this read just short-circuits the
	// common retry case without opening one.
	if stay.RewardedAt != nil {
		log.Debug("award skipped", zap.String("outcome", string(OutcomeAlreadyAwarded)))
		return OutcomeAlreadyAwarded, nil
	}

	// Step 3: only previously recommended places earn points.
	recommended, err := s.recommendations.Exists(ctx, userID, placeID)
	if err != nil {
		log.Error("award failed reading recommendations", zap.Error(err))
		return OutcomePersistenceFailure, fmt.Errorf("failed to check recommendation: %w", err)
	}
	if !recommended {
		log.Debug("award skipped", zap.String("outcome", string(OutcomeNotRecommended)))
		return OutcomeNotRecommended, nil
	}

	// Step 4: rewards require guild context.
	guildCtx, err := s.resolver.Resolve(ctx, userID, lat, lng)
	if err != nil {
		log.Error("award failed resolving context", zap.Error(err))
		return OutcomePersistenceFailure, fmt.Errorf("failed to resolve guild context: %w", err)
	}
	if guildCtx.Mode != ModeGuild {
		log.Debug("award skipped", zap.String("outcome", string(OutcomePersonalContext)))
		return OutcomePersonalContext, nil
	}

	// Step 5: claim the stay and credit the score atomically. Losing the
	// claim means a concurrent caller rewarded the stay first; the score
	// credit is skipped and the transaction commits empty.
	awardedAt := s.now()
	claimed := false
	err = s.txRunner.InAwardTx(ctx, func(tx repository.AwardTx) error {
		var txErr error
		claimed, txErr = tx.MarkStayRewarded(stayID, awardedAt)
		if txErr != nil {
			return txErr
		}
		if !claimed {
			return nil
		}
		return tx.UpsertGuildScoreIncrement(userID, guildCtx.GuildID, s.points)
	})
	if err != nil {
		log.Error("award transaction rolled back",
			zap.String("outcome", string(OutcomePersistenceFailure)),
			zap.String("guild_id", guildCtx.GuildID),
			zap.Error(err),
		)
		return OutcomePersistenceFailure, fmt.Errorf("failed to commit award: %w", err)
	}
	if !claimed {
		log.Debug("award skipped", zap.String("outcome", string(OutcomeAlreadyAwarded)))
		return OutcomeAlreadyAwarded, nil
	}

	log.Info("guild points awarded",
		zap.String("outcome", string(OutcomeAwarded)),
		zap.String("guild_id", guildCtx.GuildID),
		zap.Int64("points", s.points),
		zap.Int("nearby_members", guildCtx.NearbyMemberCount),
	)

	s.publishEvent(ctx, userID, stayID, placeID, guildCtx.GuildID, awardedAt)
	return OutcomeAwarded, nil
}

// publishEvent emits the award to the event stream when one is configured.
// Publishing is best-effort: the reward is already committed, so a broker
// failure only logs a warning.
func (s *AwardService) publishEvent(ctx context.Context, userID, stayID, placeID, guildID string, awardedAt time.Time) {
	if s.publisher == nil {
		return
	}
	event := &mq.AwardEvent{
		EventID:   uuid.New().String(),
		UserID:    userID,
		GuildID:   guildID,
		StayID:    stayID,
		PlaceID:   placeID,
		Points:    s.points,
		AwardedAt: awardedAt,
	}
	if err := s.publisher.PublishAwardEvent(event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish award event",
			zap.String("stay_id", stayID),
			zap.Error(err),
		)
	}
}
