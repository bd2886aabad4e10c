package domain

import "time"

type ShiftType string

const (
	ShiftMorning   ShiftType = "morning"
	ShiftAfternoon ShiftType = "afternoon"
)

// Shift is a recurring weekly availability rule. It belongs to exactly one
// Configuration and is replaced wholesale whenever the configuration changes.
type Shift struct {
	ID              int64        `json:"id" gorm:"primaryKey"`
	ConfigurationID int64        `json:"configuration_id" gorm:"index"`
	DayOfWeek       time.Weekday `json:"day_of_week"`
	Type            ShiftType    `json:"type"`
	StartTime       string       `json:"start_time"` // "15:04"
	EndTime         string       `json:"end_time"`
	StationCount    int          `json:"station_count"`
}

// Configuration defines the bookable window: a date range, the fixed
// appointment duration and the weekly shifts the slots are cut from.
type Configuration struct {
	ID                         int64      `json:"id" gorm:"primaryKey"`
	StartDate                  time.Time  `json:"start_date"`
	EndDate                    time.Time  `json:"end_date"`
	AppointmentDurationMinutes int        `json:"appointment_duration_minutes"`
	Shifts                     []Shift    `json:"shifts" gorm:"constraint:OnDelete:CASCADE"`
	TimeSlots                  []TimeSlot `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt                  time.Time  `json:"created_at"`
	UpdatedAt                  time.Time  `json:"updated_at"`
}
