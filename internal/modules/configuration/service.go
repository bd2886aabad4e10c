package configuration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/homerportes/RealStateRD/internal/domain"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Service orchestrates availability configurations: it validates them,
// guards against overlapping definitions and drives slot generation.
type Service struct {
	configs ConfigurationRepository
	slots   TimeSlotCounter
}

func NewService(configs ConfigurationRepository, slots TimeSlotCounter) *Service {
	return &Service{configs: configs, slots: slots}
}

func (s *Service) Create(ctx context.Context, req SaveConfigurationRequest) (*ConfigurationResponse, error) {
	cfg, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkOverlap(ctx, cfg, 0); err != nil {
		return nil, err
	}

	if err := s.configs.Create(ctx, cfg); err != nil {
		return nil, err
	}

	if err := s.GenerateSlots(ctx, cfg.ID); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, cfg.ID)
}

func (s *Service) Update(ctx context.Context, id int64, req SaveConfigurationRequest) error {
	existing, err := s.configs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	cfg, err := s.validate(req)
	if err != nil {
		return err
	}
	if err := s.checkOverlap(ctx, cfg, existing.ID); err != nil {
		return err
	}

	cfg.ID = existing.ID
	cfg.CreatedAt = existing.CreatedAt
	if err := s.configs.Update(ctx, cfg); err != nil {
		return err
	}

	return s.GenerateSlots(ctx, cfg.ID)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.configs.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.configs.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*ConfigurationResponse, error) {
	cfg, err := s.configs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	slotCount, err := s.slots.CountForConfiguration(ctx, id)
	if err != nil {
		return nil, err
	}

	return toResponse(cfg, slotCount), nil
}

func (s *Service) GetAll(ctx context.Context) ([]ConfigurationResponse, error) {
	cfgs, err := s.configs.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ConfigurationResponse, 0, len(cfgs))
	for i := range cfgs {
		slotCount, err := s.slots.CountForConfiguration(ctx, cfgs[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *toResponse(&cfgs[i], slotCount))
	}
	return out, nil
}

// GenerateSlots rebuilds the complete slot set of a configuration. The old
// set is dropped and replaced in one transaction; confirmed bookings on the
// dropped slots are cancelled there as well.
func (s *Service) GenerateSlots(ctx context.Context, configID int64) error {
	cfg, err := s.configs.GetByID(ctx, configID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	slots := buildSlots(cfg)
	if err := s.configs.ReplaceTimeSlots(ctx, cfg.ID, slots); err != nil {
		return err
	}

	log.Printf("generated %d time slots for configuration %d (%s to %s)",
		len(slots), cfg.ID, cfg.StartDate.Format(dateLayout), cfg.EndDate.Format(dateLayout))
	return nil
}

// validate parses and checks the request, returning a configuration ready to
// persist. Checks run in a fixed order and fail on the first violation.
func (s *Service) validate(req SaveConfigurationRequest) (*domain.Configuration, error) {
	startDate, err := time.ParseInLocation(dateLayout, req.StartDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start_date %q", ErrValidation, req.StartDate)
	}
	endDate, err := time.ParseInLocation(dateLayout, req.EndDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end_date %q", ErrValidation, req.EndDate)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date must not be before start date", ErrValidation)
	}

	shifts := make([]domain.Shift, 0, len(req.Shifts))
	for _, sh := range req.Shifts {
		start, err := clockToMinutes(sh.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: shift %s/%s has invalid start time %q",
				ErrValidation, time.Weekday(sh.DayOfWeek), sh.Type, sh.StartTime)
		}
		end, err := clockToMinutes(sh.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: shift %s/%s has invalid end time %q",
				ErrValidation, time.Weekday(sh.DayOfWeek), sh.Type, sh.EndTime)
		}
		if end <= start {
			return nil, fmt.Errorf("%w: shift %s/%s end time must be after start time",
				ErrValidation, time.Weekday(sh.DayOfWeek), sh.Type)
		}
		if end-start < req.AppointmentDurationMinutes {
			return nil, fmt.Errorf("%w: shift %s/%s is shorter than the appointment duration",
				ErrValidation, time.Weekday(sh.DayOfWeek), sh.Type)
		}

		shifts = append(shifts, domain.Shift{
			DayOfWeek:    time.Weekday(sh.DayOfWeek),
			Type:         domain.ShiftType(sh.Type),
			StartTime:    sh.StartTime,
			EndTime:      sh.EndTime,
			StationCount: sh.StationCount,
		})
	}

	return &domain.Configuration{
		StartDate:                  domain.DateOnly(startDate),
		EndDate:                    domain.DateOnly(endDate),
		AppointmentDurationMinutes: req.AppointmentDurationMinutes,
		Shifts:                     shifts,
	}, nil
}

// checkOverlap rejects the candidate when another configuration covers an
// intersecting date range and shares at least one (day of week, shift type)
// pair. excludeID skips the configuration being updated.
func (s *Service) checkOverlap(ctx context.Context, cfg *domain.Configuration, excludeID int64) error {
	existing, err := s.configs.GetOverlapping(ctx, cfg.StartDate, cfg.EndDate)
	if err != nil {
		return err
	}

	for i := range existing {
		other := &existing[i]
		if other.ID == excludeID {
			continue
		}
		for _, newShift := range cfg.Shifts {
			for _, oldShift := range other.Shifts {
				if oldShift.DayOfWeek == newShift.DayOfWeek && oldShift.Type == newShift.Type {
					return fmt.Errorf("%w: configuration %d already covers %s/%s between %s and %s",
						ErrOverlap, other.ID, newShift.DayOfWeek, newShift.Type,
						other.StartDate.Format(dateLayout), other.EndDate.Format(dateLayout))
				}
			}
		}
	}
	return nil
}

func toResponse(cfg *domain.Configuration, slotCount int64) *ConfigurationResponse {
	shifts := make([]ShiftResponse, 0, len(cfg.Shifts))
	for _, sh := range cfg.Shifts {
		shifts = append(shifts, ShiftResponse{
			ID:           sh.ID,
			DayOfWeek:    int(sh.DayOfWeek),
			Type:         string(sh.Type),
			StartTime:    sh.StartTime,
			EndTime:      sh.EndTime,
			StationCount: sh.StationCount,
		})
	}

	return &ConfigurationResponse{
		ID:                         cfg.ID,
		StartDate:                  cfg.StartDate.Format(dateLayout),
		EndDate:                    cfg.EndDate.Format(dateLayout),
		AppointmentDurationMinutes: cfg.AppointmentDurationMinutes,
		Shifts:                     shifts,
		TimeSlotsCount:             slotCount,
	}
}
