package configuration

import (
	"context"
	"fmt"
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
	dsn := fmt.Sprintf("file:config_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Configuration{},
		&domain.Shift{},
		&domain.TimeSlot{},
		&domain.Booking{},
	))

	return NewService(repository.NewConfigurationRepository(db), repository.NewTimeSlotRepository(db)), db
}

func weekRequest(start, end string) SaveConfigurationRequest {
	return SaveConfigurationRequest{
		StartDate:                  start,
		EndDate:                    end,
		AppointmentDurationMinutes: 60,
		Shifts: []ShiftRequest{
			{DayOfWeek: int(time.Monday), Type: "morning", StartTime: "09:00", EndTime: "12:00", StationCount: 2},
		},
	}
}

func TestCreateGeneratesSlots(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	// 2025-03-03..2025-03-09 holds exactly one Monday
	resp, err := svc.Create(ctx, weekRequest("2025-03-03", "2025-03-09"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TimeSlotsCount)
	require.Len(t, resp.Shifts, 1)
	assert.Equal(t, 2, resp.Shifts[0].StationCount)

	var slots []domain.TimeSlot
	require.NoError(t, db.Where("configuration_id = ?", resp.ID).Order("start_time").Find(&slots).Error)
	require.Len(t, slots, 3)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, 2, slots[0].MaxCapacity)
}

func TestCreateRejectsEndDateBeforeStartDate(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.Create(context.Background(), weekRequest("2025-03-09", "2025-03-03"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateRejectsShiftEndBeforeStart(t *testing.T) {
	svc, _ := setupTestService(t)

	req := weekRequest("2025-03-03", "2025-03-09")
	req.Shifts[0].StartTime = "12:00"
	req.Shifts[0].EndTime = "09:00"

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateRejectsShiftShorterThanDuration(t *testing.T) {
	svc, _ := setupTestService(t)

	req := weekRequest("2025-03-03", "2025-03-09")
	req.Shifts[0].StartTime = "09:00"
	req.Shifts[0].EndTime = "09:30"

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateRejectsOverlapOnSharedDayAndType(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, weekRequest("2025-03-03", "2025-03-16"))
	require.NoError(t, err)

	// intersecting dates, same Monday morning pair
	_, err = svc.Create(ctx, weekRequest("2025-03-10", "2025-03-23"))
	assert.ErrorIs(t, err, ErrOverlap)
}

func TestCreateAllowsOverlappingDatesWithDisjointShiftPairs(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, weekRequest("2025-03-03", "2025-03-16"))
	require.NoError(t, err)

	other := weekRequest("2025-03-10", "2025-03-23")
	other.Shifts[0].DayOfWeek = int(time.Tuesday)
	other.Shifts[0].Type = "afternoon"
	other.Shifts[0].StartTime = "14:00"
	other.Shifts[0].EndTime = "17:00"

	_, err = svc.Create(ctx, other)
	assert.NoError(t, err)
}

func TestUpdateExcludesItselfFromOverlapCheck(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, weekRequest("2025-03-03", "2025-03-09"))
	require.NoError(t, err)

	// same range, same shift pair: only the config itself collides
	err = svc.Update(ctx, created.ID, weekRequest("2025-03-03", "2025-03-09"))
	assert.NoError(t, err)
}

func TestUpdateRegeneratesSlots(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, weekRequest("2025-03-03", "2025-03-09"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.TimeSlotsCount)

	updated := weekRequest("2025-03-03", "2025-03-09")
	updated.AppointmentDurationMinutes = 30
	require.NoError(t, svc.Update(ctx, created.ID, updated))

	after, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), after.TimeSlotsCount)
}

func TestRegenerateCancelsBookingsOnDroppedSlots(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, weekRequest("2025-03-03", "2025-03-09"))
	require.NoError(t, err)

	var slot domain.TimeSlot
	require.NoError(t, db.Where("configuration_id = ?", created.ID).First(&slot).Error)

	booking := domain.Booking{
		TimeSlotID:  slot.ID,
		UserID:      1,
		Status:      domain.BookingConfirmed,
		BookingDate: time.Now(),
	}
	require.NoError(t, db.Create(&booking).Error)

	require.NoError(t, svc.GenerateSlots(ctx, created.ID))

	var after domain.Booking
	require.NoError(t, db.First(&after, booking.ID).Error)
	assert.Equal(t, domain.BookingCancelled, after.Status)
}

func TestDeleteRemovesSlotsAndCancelsBookings(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, weekRequest("2025-03-03", "2025-03-09"))
	require.NoError(t, err)

	var slot domain.TimeSlot
	require.NoError(t, db.Where("configuration_id = ?", created.ID).First(&slot).Error)

	booking := domain.Booking{
		TimeSlotID:  slot.ID,
		UserID:      7,
		Status:      domain.BookingConfirmed,
		BookingDate: time.Now(),
	}
	require.NoError(t, db.Create(&booking).Error)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var slotCount int64
	require.NoError(t, db.Model(&domain.TimeSlot{}).Where("configuration_id = ?", created.ID).Count(&slotCount).Error)
	assert.Zero(t, slotCount)

	var after domain.Booking
	require.NoError(t, db.First(&after, booking.ID).Error)
	assert.Equal(t, domain.BookingCancelled, after.Status)
}

func TestGenerateSlotsUnknownConfiguration(t *testing.T) {
	svc, _ := setupTestService(t)
	assert.ErrorIs(t, svc.GenerateSlots(context.Background(), 9999), ErrNotFound)
}
