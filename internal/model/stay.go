package model

import "time"

// Stay is a recorded visit by a user to a place. RewardedAt is null until
// the visit earns guild points; it is set exactly once and never changes
// afterwards. Rows are created by the visit-tracking pipeline; this service
// only flips RewardedAt.
type Stay struct {
	ID      string `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID  string `gorm:"index;not null;type:varchar(64)" json:"user_id"`
	PlaceID string `gorm:"index;not null;type:varchar(128)" json:"place_id"`

	RewardedAt *time.Time `gorm:"index" json:"rewarded_at"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Stay) TableName() string {
	return "stays"
}

// Recommendation marks a place as previously suggested to a user. The mere
// existence of the (user, place) pair is what makes a visit reward-eligible.
type Recommendation struct {
	ID      string `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID  string `gorm:"not null;type:varchar(64);uniqueIndex:ux_recommendation_user_place,priority:1" json:"user_id"`
	PlaceID string `gorm:"not null;type:varchar(128);uniqueIndex:ux_recommendation_user_place,priority:2" json:"place_id"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}
