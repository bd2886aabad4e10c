package configuration

import (
	"fmt"
	"time"

	"github.com/homerportes/RealStateRD/internal/domain"
)

// buildSlots expands a configuration into its full slot set. Deterministic:
// the same configuration always yields the same (date, start, end, capacity)
// multiset. A trailing interval shorter than the appointment duration is
// discarded, never emitted truncated.
func buildSlots(cfg *domain.Configuration) []domain.TimeSlot {
	var slots []domain.TimeSlot

	start := domain.DateOnly(cfg.StartDate)
	end := domain.DateOnly(cfg.EndDate)

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		for i := range cfg.Shifts {
			shift := &cfg.Shifts[i]
			if shift.DayOfWeek != date.Weekday() {
				continue
			}
			slots = append(slots, slotsForShift(date, shift, cfg)...)
		}
	}

	return slots
}

func slotsForShift(date time.Time, shift *domain.Shift, cfg *domain.Configuration) []domain.TimeSlot {
	shiftStart, err1 := clockToMinutes(shift.StartTime)
	shiftEnd, err2 := clockToMinutes(shift.EndTime)
	if err1 != nil || err2 != nil {
		// shift times are validated before anything is persisted
		return nil
	}

	var out []domain.TimeSlot
	for cur := shiftStart; cur+cfg.AppointmentDurationMinutes <= shiftEnd; cur += cfg.AppointmentDurationMinutes {
		out = append(out, domain.TimeSlot{
			ConfigurationID: cfg.ID,
			ShiftID:         shift.ID,
			SlotDate:        date,
			StartTime:       minutesToClock(cur),
			EndTime:         minutesToClock(cur + cfg.AppointmentDurationMinutes),
			MaxCapacity:     shift.StationCount,
			CurrentBookings: 0,
		})
	}
	return out
}

func clockToMinutes(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", hm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func minutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
