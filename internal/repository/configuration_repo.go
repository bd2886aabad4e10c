package repository

import (
	"context"
	"time"

	"github.com/homerportes/RealStateRD/internal/domain"

	"gorm.io/gorm"
)

type ConfigurationRepository struct {
	db *gorm.DB
}

func NewConfigurationRepository(db *gorm.DB) *ConfigurationRepository {
	return &ConfigurationRepository{db: db}
}

func (r *ConfigurationRepository) Create(ctx context.Context, cfg *domain.Configuration) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *ConfigurationRepository) GetByID(ctx context.Context, id int64) (*domain.Configuration, error) {
	var cfg domain.Configuration
	tx := r.db.WithContext(ctx).Preload("Shifts").First(&cfg, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &cfg, nil
}

func (r *ConfigurationRepository) GetAll(ctx context.Context) ([]domain.Configuration, error) {
	var cfgs []domain.Configuration
	tx := r.db.WithContext(ctx).Preload("Shifts").Order("start_date").Find(&cfgs)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return cfgs, nil
}

// GetOverlapping returns configurations whose inclusive date range intersects
// [start, end], shifts preloaded for the (day, type) collision check.
func (r *ConfigurationRepository) GetOverlapping(ctx context.Context, start, end time.Time) ([]domain.Configuration, error) {
	var cfgs []domain.Configuration
	tx := r.db.WithContext(ctx).Preload("Shifts").
		Where("start_date <= ? AND end_date >= ?", end, start).
		Find(&cfgs)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return cfgs, nil
}

// Update replaces the configuration row and its full shift set in one
// transaction. Shifts are never diffed, always rewritten.
func (r *ConfigurationRepository) Update(ctx context.Context, cfg *domain.Configuration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("configuration_id = ?", cfg.ID).Delete(&domain.Shift{}).Error; err != nil {
			return err
		}
		for i := range cfg.Shifts {
			cfg.Shifts[i].ID = 0
			cfg.Shifts[i].ConfigurationID = cfg.ID
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(cfg).Error
	})
}

// Delete removes the configuration, its shifts and slots, and cancels any
// confirmed bookings that pointed at the removed slots.
func (r *ConfigurationRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cancelBookingsForConfiguration(tx, id); err != nil {
			return err
		}
		if err := tx.Where("configuration_id = ?", id).Delete(&domain.TimeSlot{}).Error; err != nil {
			return err
		}
		if err := tx.Where("configuration_id = ?", id).Delete(&domain.Shift{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Configuration{}, id).Error
	})
}

// ReplaceTimeSlots swaps the configuration's slot set atomically. Bookings
// referencing the old slots are cancelled in the same transaction so no
// booking is left pointing at a slot that no longer exists.
func (r *ConfigurationRepository) ReplaceTimeSlots(ctx context.Context, configID int64, slots []domain.TimeSlot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cancelBookingsForConfiguration(tx, configID); err != nil {
			return err
		}
		if err := tx.Where("configuration_id = ?", configID).Delete(&domain.TimeSlot{}).Error; err != nil {
			return err
		}
		if len(slots) == 0 {
			return nil
		}
		return tx.CreateInBatches(slots, 200).Error
	})
}

func cancelBookingsForConfiguration(tx *gorm.DB, configID int64) error {
	return tx.Model(&domain.Booking{}).
		Where("status = ? AND time_slot_id IN (?)",
			domain.BookingConfirmed,
			tx.Session(&gorm.Session{NewDB: true}).
				Model(&domain.TimeSlot{}).
				Select("id").
				Where("configuration_id = ?", configID),
		).
		Update("status", domain.BookingCancelled).Error
}
