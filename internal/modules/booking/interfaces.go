package booking

import (
	"context"
	"time"

	"github.com/homerportes/RealStateRD/internal/domain"

	"gorm.io/gorm"
)

type TimeSlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	GetAvailable(ctx context.Context, start, end time.Time) ([]domain.TimeSlot, error)
}

// BookingRepository exposes reads plus the raw handle; the seat allocation
// itself runs in a transaction owned by the service.
type BookingRepository interface {
	DB() *gorm.DB
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Booking, error)
	GetAll(ctx context.Context) ([]domain.Booking, error)
}
