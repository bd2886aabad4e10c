package configuration

import (
	"context"
	"time"

	"github.com/homerportes/RealStateRD/internal/domain"
)

// ConfigurationRepository is the persistence contract for availability
// configurations and their generated slot sets.
type ConfigurationRepository interface {
	Create(ctx context.Context, cfg *domain.Configuration) error
	GetByID(ctx context.Context, id int64) (*domain.Configuration, error)
	GetAll(ctx context.Context) ([]domain.Configuration, error)
	GetOverlapping(ctx context.Context, start, end time.Time) ([]domain.Configuration, error)
	Update(ctx context.Context, cfg *domain.Configuration) error
	Delete(ctx context.Context, id int64) error
	ReplaceTimeSlots(ctx context.Context, configID int64, slots []domain.TimeSlot) error
}

type TimeSlotCounter interface {
	CountForConfiguration(ctx context.Context, configID int64) (int64, error)
}
