package domain

import (
	"fmt"
	"time"
)

// TimeSlot is one concrete bookable interval, cut from a shift by the slot
// generator. CurrentBookings is mutated only inside the booking allocator's
// locked transaction; slots are never edited individually, only regenerated
// as a full set per configuration.
type TimeSlot struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	ConfigurationID int64     `json:"configuration_id" gorm:"index"`
	ShiftID         int64     `json:"shift_id"`
	SlotDate        time.Time `json:"slot_date" gorm:"index"`
	StartTime       string    `json:"start_time"` // "15:04"
	EndTime         string    `json:"end_time"`
	MaxCapacity     int       `json:"max_capacity"`
	CurrentBookings int       `json:"current_bookings"`
}

func (s *TimeSlot) AvailableSeats() int {
	return s.MaxCapacity - s.CurrentBookings
}

// StartsAt combines SlotDate with StartTime into a wall-clock instant in loc.
func (s *TimeSlot) StartsAt(loc *time.Location) (time.Time, error) {
	var hour, min int
	if _, err := fmt.Sscanf(s.StartTime, "%d:%d", &hour, &min); err != nil {
		return time.Time{}, fmt.Errorf("invalid start time %q: %w", s.StartTime, err)
	}
	return time.Date(s.SlotDate.Year(), s.SlotDate.Month(), s.SlotDate.Day(), hour, min, 0, 0, loc), nil
}

// DateOnly strips the time-of-day component, keeping the location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
