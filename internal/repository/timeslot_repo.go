package repository

import (
	"context"
	"time"

	"github.com/homerportes/RealStateRD/internal/domain"

	"gorm.io/gorm"
)

type TimeSlotRepository struct {
	db *gorm.DB
}

func NewTimeSlotRepository(db *gorm.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

func (r *TimeSlotRepository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	var s domain.TimeSlot
	tx := r.db.WithContext(ctx).First(&s, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &s, nil
}

// GetAvailable returns slots in [start, end] with free seats, ordered by date
// then start time. "15:04" strings sort chronologically.
func (r *TimeSlotRepository) GetAvailable(ctx context.Context, start, end time.Time) ([]domain.TimeSlot, error) {
	var slots []domain.TimeSlot
	tx := r.db.WithContext(ctx).
		Where("slot_date >= ? AND slot_date <= ? AND current_bookings < max_capacity", start, end).
		Order("slot_date, start_time").
		Find(&slots)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return slots, nil
}

func (r *TimeSlotRepository) CountForConfiguration(ctx context.Context, configID int64) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&domain.TimeSlot{}).
		Where("configuration_id = ?", configID).
		Count(&cnt)
	return cnt, tx.Error
}
