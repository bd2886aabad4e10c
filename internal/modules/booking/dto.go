package booking

type CreateBookingRequest struct {
	TimeSlotID int64 `json:"time_slot_id" binding:"required,min=1"`
}

type SlotResponse struct {
	ID             int64  `json:"id"`
	SlotDate       string `json:"slot_date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	MaxCapacity    int    `json:"max_capacity"`
	AvailableSeats int    `json:"available_seats"`
}

type BookingResponse struct {
	ID          int64         `json:"id"`
	Status      string        `json:"status"`
	BookingDate string        `json:"booking_date"`
	TimeSlot    *SlotResponse `json:"time_slot,omitempty"`
	UserID      int64         `json:"user_id,omitempty"`
	UserEmail   string        `json:"user_email,omitempty"`
}

// DashboardResponse summarizes the caller's bookings plus the nearest open
// slots for the coming week.
type DashboardResponse struct {
	TotalBookings     int            `json:"total_bookings"`
	ConfirmedBookings int            `json:"confirmed_bookings"`
	CancelledBookings int            `json:"cancelled_bookings"`
	UpcomingSlots     []SlotResponse `json:"upcoming_slots"`
}
