package repository

import (
	"context"

	"gorm.io/gorm"

	"wanderguild/internal/model"
)

// IStayRepository defines read access to recorded visits. Stays are created
// by the visit-tracking pipeline; the award path only ever flips their
// rewarded_at column, and does so through the award transaction.
type IStayRepository interface {
	FindByID(ctx context.Context, stayID string) (*model.Stay, error)
}

// StayRepository implements IStayRepository over Postgres
type StayRepository struct {
	db *gorm.DB
}

// NewStayRepository creates a new IStayRepository instance
func NewStayRepository(db *gorm.DB) IStayRepository {
	return &StayRepository{db: db}
}

// FindByID finds a stay by ID. Returns gorm.ErrRecordNotFound when the stay
// does not exist.
func (r *StayRepository) FindByID(ctx context.Context, stayID string) (*model.Stay, error) {
	var stay model.Stay
	err := r.db.WithContext(ctx).Where("id = ?", stayID).First(&stay).Error
	if err != nil {
		return nil, err
	}
	return &stay, nil
}
