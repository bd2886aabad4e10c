package repository

import (
	"context"

	"github.com/homerportes/RealStateRD/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// DB exposes the underlying handle so the booking service can run the seat
// allocation inside a single transaction.
func (r *BookingRepository) DB() *gorm.DB { return r.db }

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	tx := r.db.WithContext(ctx).Preload("TimeSlot").First(&b, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &b, nil
}

func (r *BookingRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var bookings []domain.Booking
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("TimeSlot").
		Order("booking_date DESC").
		Find(&bookings)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return bookings, nil
}

func (r *BookingRepository) GetAll(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	tx := r.db.WithContext(ctx).
		Preload("TimeSlot").
		Preload("User").
		Order("booking_date DESC").
		Find(&bookings)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return bookings, nil
}
