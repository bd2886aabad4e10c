package configuration

type ShiftRequest struct {
	DayOfWeek    int    `json:"day_of_week" validate:"min=0,max=6"`
	Type         string `json:"type" validate:"required,oneof=morning afternoon"`
	StartTime    string `json:"start_time" validate:"required"`
	EndTime      string `json:"end_time" validate:"required"`
	StationCount int    `json:"station_count" validate:"required,min=1"`
}

type SaveConfigurationRequest struct {
	StartDate                  string         `json:"start_date" validate:"required"` // "2006-01-02"
	EndDate                    string         `json:"end_date" validate:"required"`
	AppointmentDurationMinutes int            `json:"appointment_duration_minutes" validate:"required,min=5,max=120"`
	Shifts                     []ShiftRequest `json:"shifts" validate:"required,min=1,dive"`
}

type ConfigurationResponse struct {
	ID                         int64           `json:"id"`
	StartDate                  string          `json:"start_date"`
	EndDate                    string          `json:"end_date"`
	AppointmentDurationMinutes int             `json:"appointment_duration_minutes"`
	Shifts                     []ShiftResponse `json:"shifts"`
	TimeSlotsCount             int64           `json:"time_slots_count"`
}

type ShiftResponse struct {
	ID           int64  `json:"id"`
	DayOfWeek    int    `json:"day_of_week"`
	Type         string `json:"type"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	StationCount int    `json:"station_count"`
}
