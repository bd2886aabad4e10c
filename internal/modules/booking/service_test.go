package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/homerportes/RealStateRD/internal/domain"
	"github.com/homerportes/RealStateRD/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:booking_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)

	// serialize access, sqlite has no row locks
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Configuration{},
		&domain.Shift{},
		&domain.TimeSlot{},
		&domain.Booking{},
	))

	return NewService(repository.NewTimeSlotRepository(db), repository.NewBookingRepository(db)), db
}

// createSlot stores a slot dated daysAhead from now. Dates are UTC midnights,
// the same shape the slot generator persists.
func createSlot(t *testing.T, db *gorm.DB, daysAhead, capacity int) *domain.TimeSlot {
	t.Helper()
	slot := &domain.TimeSlot{
		ConfigurationID: 1,
		ShiftID:         1,
		SlotDate:        domain.DateOnly(time.Now().UTC().AddDate(0, 0, daysAhead)),
		StartTime:       "10:00",
		EndTime:         "11:00",
		MaxCapacity:     capacity,
	}
	require.NoError(t, db.Create(slot).Error)
	return slot
}

func TestCreateBookingConfirmsAndIncrementsCounter(t *testing.T) {
	svc, db := setupTestService(t)
	slot := createSlot(t, db, 2, 3)

	resp, err := svc.CreateBooking(context.Background(), 1, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.BookingConfirmed), resp.Status)
	require.NotNil(t, resp.TimeSlot)
	assert.Equal(t, 2, resp.TimeSlot.AvailableSeats)

	var after domain.TimeSlot
	require.NoError(t, db.First(&after, slot.ID).Error)
	assert.Equal(t, 1, after.CurrentBookings)
}

func TestCreateBookingUnknownSlot(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.CreateBooking(context.Background(), 1, 12345)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestCreateBookingRejectsPastSlot(t *testing.T) {
	svc, db := setupTestService(t)
	slot := createSlot(t, db, -1, 3)

	_, err := svc.CreateBooking(context.Background(), 1, slot.ID)
	assert.ErrorIs(t, err, ErrSlotInPast)
}

func TestCreateBookingSurfacesMalformedSlotTime(t *testing.T) {
	svc, db := setupTestService(t)

	slot := &domain.TimeSlot{
		ConfigurationID: 1,
		ShiftID:         1,
		SlotDate:        domain.DateOnly(time.Now().UTC().AddDate(0, 0, 2)),
		StartTime:       "morning",
		EndTime:         "noon",
		MaxCapacity:     2,
	}
	require.NoError(t, db.Create(slot).Error)

	// a garbage start time is an error, not a silently-past slot
	_, err := svc.CreateBooking(context.Background(), 1, slot.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSlotInPast)
}

func TestCreateBookingRejectsFullSlot(t *testing.T) {
	svc, db := setupTestService(t)
	slot := createSlot(t, db, 2, 1)

	_, err := svc.CreateBooking(context.Background(), 1, slot.ID)
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), 2, slot.ID)
	assert.ErrorIs(t, err, ErrSlotFull)
}

func TestCreateBookingRejectsSecondBookingSameDay(t *testing.T) {
	svc, db := setupTestService(t)
	first := createSlot(t, db, 2, 3)

	second := &domain.TimeSlot{
		ConfigurationID: 1,
		ShiftID:         1,
		SlotDate:        first.SlotDate,
		StartTime:       "14:00",
		EndTime:         "15:00",
		MaxCapacity:     3,
	}
	require.NoError(t, db.Create(second).Error)

	_, err := svc.CreateBooking(context.Background(), 1, first.ID)
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), 1, second.ID)
	assert.ErrorIs(t, err, ErrAlreadyBookedSameDay)
}

func TestCreateBookingAllowsSameDayAfterCancellation(t *testing.T) {
	svc, db := setupTestService(t)
	first := createSlot(t, db, 2, 3)

	booked, err := svc.CreateBooking(context.Background(), 1, first.ID)
	require.NoError(t, err)
	require.NoError(t, svc.CancelBooking(context.Background(), booked.ID, 1))

	_, err = svc.CreateBooking(context.Background(), 1, first.ID)
	assert.NoError(t, err)
}

func TestConcurrentBookingsNeverExceedCapacity(t *testing.T) {
	svc, db := setupTestService(t)
	slot := createSlot(t, db, 2, 2)

	const attempts = 4
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// distinct users so only capacity can reject
			_, errs[i] = svc.CreateBooking(context.Background(), int64(100+i), slot.ID)
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrSlotFull)
		}
	}
	assert.Equal(t, 2, succeeded)

	var after domain.TimeSlot
	require.NoError(t, db.First(&after, slot.ID).Error)
	assert.Equal(t, 2, after.CurrentBookings)

	var count int64
	require.NoError(t, db.Model(&domain.Booking{}).
		Where("time_slot_id = ? AND status = ?", slot.ID, domain.BookingConfirmed).
		Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestCancelBookingReleasesSeat(t *testing.T) {
	svc, db := setupTestService(t)
	slot := createSlot(t, db, 2, 2)

	booked, err := svc.CreateBooking(context.Background(), 1, slot.ID)
	require.NoError(t, err)

	require.NoError(t, svc.CancelBooking(context.Background(), booked.ID, 1))

	var b domain.Booking
	require.NoError(t, db.First(&b, booked.ID).Error)
	assert.Equal(t, domain.BookingCancelled, b.Status)

	var after domain.TimeSlot
	require.NoError(t, db.First(&after, slot.ID).Error)
	assert.Equal(t, 0, after.CurrentBookings)
}

func TestCancelBookingUnknownBooking(t *testing.T) {
	svc, _ := setupTestService(t)
	assert.ErrorIs(t, svc.CancelBooking(context.Background(), 424242, 1), ErrBookingNotFound)
}

func TestCancelBookingOwnershipEnforced(t *testing.T) {
	svc, db := setupTestService(t)
	slot := createSlot(t, db, 2, 2)

	booked, err := svc.CreateBooking(context.Background(), 1, slot.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.CancelBooking(context.Background(), booked.ID, 9), ErrForbidden)
}

func TestCancelBookingRejectsAlreadyCancelled(t *testing.T) {
	svc, db := setupTestService(t)
	slot := createSlot(t, db, 2, 2)

	booked, err := svc.CreateBooking(context.Background(), 1, slot.ID)
	require.NoError(t, err)
	require.NoError(t, svc.CancelBooking(context.Background(), booked.ID, 1))

	assert.ErrorIs(t, svc.CancelBooking(context.Background(), booked.ID, 1), ErrNotConfirmed)
}

func TestCancelBookingRejectsInsideCutoff(t *testing.T) {
	svc, db := setupTestService(t)

	// slot starting in 30 minutes, inside the one hour cutoff
	soon := time.Now().Add(30 * time.Minute)
	slot := &domain.TimeSlot{
		ConfigurationID: 1,
		ShiftID:         1,
		SlotDate:        domain.DateOnly(soon),
		StartTime:       soon.Format("15:04"),
		EndTime:         soon.Add(time.Hour).Format("15:04"),
		MaxCapacity:     1,
		CurrentBookings: 1,
	}
	require.NoError(t, db.Create(slot).Error)

	booking := domain.Booking{
		TimeSlotID:  slot.ID,
		UserID:      1,
		Status:      domain.BookingConfirmed,
		BookingDate: time.Now(),
	}
	require.NoError(t, db.Create(&booking).Error)

	assert.ErrorIs(t, svc.CancelBooking(context.Background(), booking.ID, 1), ErrCancelTooLate)
}

func TestGetAvailableSlotsFiltersFullAndOrders(t *testing.T) {
	svc, db := setupTestService(t)

	full := createSlot(t, db, 2, 1)
	require.NoError(t, db.Model(full).Update("current_bookings", 1).Error)

	later := &domain.TimeSlot{
		ConfigurationID: 1,
		ShiftID:         1,
		SlotDate:        domain.DateOnly(time.Now().UTC().AddDate(0, 0, 3)),
		StartTime:       "09:00",
		EndTime:         "10:00",
		MaxCapacity:     2,
	}
	require.NoError(t, db.Create(later).Error)

	earlier := &domain.TimeSlot{
		ConfigurationID: 1,
		ShiftID:         1,
		SlotDate:        domain.DateOnly(time.Now().UTC().AddDate(0, 0, 1)),
		StartTime:       "16:00",
		EndTime:         "17:00",
		MaxCapacity:     2,
	}
	require.NoError(t, db.Create(earlier).Error)

	slots, err := svc.GetAvailableSlots(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, earlier.ID, slots[0].ID)
	assert.Equal(t, later.ID, slots[1].ID)
	assert.Equal(t, 2, slots[0].AvailableSeats)
}

func TestGetAvailableSlotsBoundaryUnaffectedByServerZone(t *testing.T) {
	svc, db := setupTestService(t)

	// run with the process zone well ahead of UTC; a local-zone parse of the
	// range bounds would shift them behind the stored UTC slot date
	prevLocal := time.Local
	time.Local = time.FixedZone("UTC+5", 5*60*60)
	t.Cleanup(func() { time.Local = prevLocal })

	day := domain.DateOnly(time.Now().UTC().AddDate(0, 0, 5))
	slot := &domain.TimeSlot{
		ConfigurationID: 1,
		ShiftID:         1,
		SlotDate:        day,
		StartTime:       "10:00",
		EndTime:         "11:00",
		MaxCapacity:     2,
	}
	require.NoError(t, db.Create(slot).Error)

	dayStr := day.Format("2006-01-02")
	slots, err := svc.GetAvailableSlots(context.Background(), dayStr, dayStr)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, dayStr, slots[0].SlotDate)
}

func TestGetAvailableSlotsRejectsInvertedRange(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.GetAvailableSlots(context.Background(), "2025-03-10", "2025-03-03")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestGetAvailableSlotsRejectsPastOnlyRange(t *testing.T) {
	svc, _ := setupTestService(t)

	start := time.Now().AddDate(0, 0, -10).Format("2006-01-02")
	end := time.Now().AddDate(0, 0, -3).Format("2006-01-02")
	_, err := svc.GetAvailableSlots(context.Background(), start, end)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestGetDashboardCountsByStatus(t *testing.T) {
	svc, db := setupTestService(t)
	first := createSlot(t, db, 2, 3)

	second := &domain.TimeSlot{
		ConfigurationID: 1,
		ShiftID:         1,
		SlotDate:        domain.DateOnly(time.Now().UTC().AddDate(0, 0, 3)),
		StartTime:       "10:00",
		EndTime:         "11:00",
		MaxCapacity:     3,
	}
	require.NoError(t, db.Create(second).Error)

	booked, err := svc.CreateBooking(context.Background(), 1, first.ID)
	require.NoError(t, err)
	require.NoError(t, svc.CancelBooking(context.Background(), booked.ID, 1))

	_, err = svc.CreateBooking(context.Background(), 1, second.ID)
	require.NoError(t, err)

	dash, err := svc.GetDashboard(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, dash.TotalBookings)
	assert.Equal(t, 1, dash.ConfirmedBookings)
	assert.Equal(t, 1, dash.CancelledBookings)
	assert.NotEmpty(t, dash.UpcomingSlots)
}
