package repository

import (
	"context"

	"gorm.io/gorm"

	"wanderguild/internal/model"
)

// IRecommendationRepository defines read access to recommendations
type IRecommendationRepository interface {
	Exists(ctx context.Context, userID, placeID string) (bool, error)
}

// RecommendationRepository implements IRecommendationRepository over Postgres
type RecommendationRepository struct {
	db *gorm.DB
}

// NewRecommendationRepository creates a new IRecommendationRepository instance
func NewRecommendationRepository(db *gorm.DB) IRecommendationRepository {
	return &RecommendationRepository{db: db}
}

// Exists checks whether the place was ever recommended to the user
func (r *RecommendationRepository) Exists(ctx context.Context, userID, placeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Recommendation{}).
		Where("user_id = ? AND place_id = ?", userID, placeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
