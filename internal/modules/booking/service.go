package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/homerportes/RealStateRD/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	maxAllocationAttempts = 3
	allocationRetryDelay  = 100 * time.Millisecond
	cancelCutoff          = time.Hour
	defaultRangeDays      = 7
	dashboardSlotLimit    = 5
	dateLayout            = "2006-01-02"
)

// errSlotContended signals that the slot counter moved between the locked
// read and the guarded update, so the whole transaction must be retried.
var errSlotContended = errors.New("slot counter changed during allocation")

type Service struct {
	slots    TimeSlotRepository
	bookings BookingRepository
}

func NewService(slots TimeSlotRepository, bookings BookingRepository) *Service {
	return &Service{slots: slots, bookings: bookings}
}

// CreateBooking reserves one seat on a slot for the user. The allocation runs
// in a locked transaction; on an optimistic conflict it retries a few times
// before giving up with ErrConcurrency.
func (s *Service) CreateBooking(ctx context.Context, userID, timeSlotID int64) (*BookingResponse, error) {
	slot, err := s.slots.GetByID(ctx, timeSlotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	startsAt, err := slot.StartsAt(time.Local)
	if err != nil {
		return nil, err
	}
	if !startsAt.After(time.Now()) {
		return nil, ErrSlotInPast
	}

	for attempt := 1; attempt <= maxAllocationAttempts; attempt++ {
		booking, err := s.allocate(ctx, userID, timeSlotID)
		if err == nil {
			return booking, nil
		}
		if !errors.Is(err, errSlotContended) {
			return nil, err
		}
		log.Printf("booking allocation conflict on slot %d (attempt %d/%d)",
			timeSlotID, attempt, maxAllocationAttempts)
		time.Sleep(allocationRetryDelay)
	}
	return nil, ErrConcurrency
}

func (s *Service) allocate(ctx context.Context, userID, timeSlotID int64) (*BookingResponse, error) {
	var booking domain.Booking

	err := s.bookings.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slot domain.TimeSlot
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&slot, timeSlotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotNotFound
			}
			return err
		}

		if slot.CurrentBookings >= slot.MaxCapacity {
			return ErrSlotFull
		}

		var sameDay int64
		if err := tx.Model(&domain.Booking{}).
			Joins("JOIN time_slots ON time_slots.id = bookings.time_slot_id").
			Where("bookings.user_id = ? AND bookings.status = ? AND time_slots.slot_date = ?",
				userID, domain.BookingConfirmed, slot.SlotDate).
			Count(&sameDay).Error; err != nil {
			return err
		}
		if sameDay > 0 {
			return ErrAlreadyBookedSameDay
		}

		booking = domain.Booking{
			TimeSlotID:  slot.ID,
			UserID:      userID,
			Status:      domain.BookingConfirmed,
			BookingDate: time.Now(),
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		// Guarded increment: zero rows means someone else moved the counter
		// despite the row lock, treat it as a conflict and retry.
		res := tx.Model(&domain.TimeSlot{}).
			Where("id = ? AND current_bookings = ?", slot.ID, slot.CurrentBookings).
			Update("current_bookings", slot.CurrentBookings+1)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errSlotContended
		}

		booking.TimeSlot = &domain.TimeSlot{}
		*booking.TimeSlot = slot
		booking.TimeSlot.CurrentBookings = slot.CurrentBookings + 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toBookingResponse(&booking, false), nil
}

// CancelBooking cancels a confirmed booking owned by userID and releases its
// seat. Cancellation closes one hour before the slot starts.
func (s *Service) CancelBooking(ctx context.Context, bookingID, userID int64) error {
	return s.bookings.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Booking
		if err := tx.First(&b, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if b.UserID != userID {
			return ErrForbidden
		}
		if b.Status != domain.BookingConfirmed {
			return ErrNotConfirmed
		}

		var slot domain.TimeSlot
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&slot, b.TimeSlotID).Error; err != nil {
			return err
		}
		startsAt, err := slot.StartsAt(time.Local)
		if err != nil {
			return err
		}
		if time.Until(startsAt) < cancelCutoff {
			return ErrCancelTooLate
		}

		if err := tx.Model(&b).Update("status", domain.BookingCancelled).Error; err != nil {
			return err
		}

		// Counter never goes below zero.
		return tx.Model(&domain.TimeSlot{}).
			Where("id = ? AND current_bookings > 0", slot.ID).
			UpdateColumn("current_bookings", gorm.Expr("current_bookings - 1")).Error
	})
}

// GetAvailableSlots lists slots with free seats between start and end, both
// given as "2006-01-02" and optional. Defaults to today through next week.
// Slot dates are stored as UTC midnights, so the range bounds (and the today
// floor) are parsed in UTC as well; a local-zone parse would shift the bounds
// and drop slots on the range edges.
func (s *Service) GetAvailableSlots(ctx context.Context, startStr, endStr string) ([]SlotResponse, error) {
	today := domain.DateOnly(time.Now().UTC())

	start := today
	if startStr != "" {
		parsed, err := time.ParseInLocation(dateLayout, startStr, time.UTC)
		if err != nil {
			return nil, ErrInvalidRange
		}
		start = domain.DateOnly(parsed)
	}

	end := start.AddDate(0, 0, defaultRangeDays)
	if endStr != "" {
		parsed, err := time.ParseInLocation(dateLayout, endStr, time.UTC)
		if err != nil {
			return nil, ErrInvalidRange
		}
		end = domain.DateOnly(parsed)
	}

	if end.Before(start) || end.Before(today) {
		return nil, ErrInvalidRange
	}

	slots, err := s.slots.GetAvailable(ctx, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]SlotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, toSlotResponse(&slots[i]))
	}
	return out, nil
}

func (s *Service) GetMyBookings(ctx context.Context, userID int64) ([]BookingResponse, error) {
	bookings, err := s.bookings.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, *toBookingResponse(&bookings[i], false))
	}
	return out, nil
}

func (s *Service) GetAllBookings(ctx context.Context) ([]BookingResponse, error) {
	bookings, err := s.bookings.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, *toBookingResponse(&bookings[i], true))
	}
	return out, nil
}

// GetDashboard returns the user's booking counts plus the nearest open slots
// over the coming week.
func (s *Service) GetDashboard(ctx context.Context, userID int64) (*DashboardResponse, error) {
	bookings, err := s.bookings.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	dash := &DashboardResponse{TotalBookings: len(bookings)}
	for i := range bookings {
		switch bookings[i].Status {
		case domain.BookingConfirmed:
			dash.ConfirmedBookings++
		case domain.BookingCancelled:
			dash.CancelledBookings++
		}
	}

	today := domain.DateOnly(time.Now().UTC())
	slots, err := s.slots.GetAvailable(ctx, today, today.AddDate(0, 0, defaultRangeDays))
	if err != nil {
		return nil, err
	}
	if len(slots) > dashboardSlotLimit {
		slots = slots[:dashboardSlotLimit]
	}

	dash.UpcomingSlots = make([]SlotResponse, 0, len(slots))
	for i := range slots {
		dash.UpcomingSlots = append(dash.UpcomingSlots, toSlotResponse(&slots[i]))
	}
	return dash, nil
}

func toSlotResponse(s *domain.TimeSlot) SlotResponse {
	return SlotResponse{
		ID:             s.ID,
		SlotDate:       s.SlotDate.Format(dateLayout),
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		MaxCapacity:    s.MaxCapacity,
		AvailableSeats: s.AvailableSeats(),
	}
}

func toBookingResponse(b *domain.Booking, withUser bool) *BookingResponse {
	resp := &BookingResponse{
		ID:          b.ID,
		Status:      string(b.Status),
		BookingDate: b.BookingDate.Format(time.RFC3339),
	}
	if b.TimeSlot != nil {
		slot := toSlotResponse(b.TimeSlot)
		resp.TimeSlot = &slot
	}
	if withUser {
		resp.UserID = b.UserID
		if b.User != nil {
			resp.UserEmail = b.User.Email
		}
	}
	return resp
}
