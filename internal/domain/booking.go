package domain

import "time"

type BookingStatus string

const (
	// BookingPending exists in the status set but is never assigned:
	// bookings are confirmed directly at creation, there is no approval step.
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID          int64         `json:"id" gorm:"primaryKey"`
	TimeSlotID  int64         `json:"time_slot_id" gorm:"index"`
	UserID      int64         `json:"user_id" gorm:"index"`
	Status      BookingStatus `json:"status"`
	BookingDate time.Time     `json:"booking_date"`

	TimeSlot *TimeSlot `json:"time_slot,omitempty" gorm:"foreignKey:TimeSlotID"`
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
