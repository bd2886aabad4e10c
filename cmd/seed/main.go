package main

import (
	"context"
	"log"
	"time"

	"github.com/homerportes/RealStateRD/internal/config"
	"github.com/homerportes/RealStateRD/internal/database"
	"github.com/homerportes/RealStateRD/internal/domain"
	"github.com/homerportes/RealStateRD/internal/modules/configuration"
	"github.com/homerportes/RealStateRD/internal/repository"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.RefreshToken{},
		&domain.Configuration{},
		&domain.Shift{},
		&domain.TimeSlot{},
		&domain.Booking{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data in FK-safe order
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM time_slots")
	db.Exec("DELETE FROM shifts")
	db.Exec("DELETE FROM configurations")
	db.Exec("DELETE FROM refresh_tokens")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Username:     "admin",
		Email:        "admin@realstaterd.do",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
	}
	db.Create(&admin)
	log.Println("Admin created: admin@realstaterd.do / admin123")

	userHash, _ := bcrypt.GenerateFromPassword([]byte("client123"), bcrypt.DefaultCost)
	demoUser := domain.User{
		Username:     "maria",
		Email:        "maria@example.com",
		PasswordHash: string(userHash),
		Role:         domain.RoleUser,
	}
	db.Create(&demoUser)
	log.Println("Demo user created: maria@example.com / client123")

	// Demo availability: two weeks starting next Monday, weekday shifts
	configRepo := repository.NewConfigurationRepository(db)
	slotRepo := repository.NewTimeSlotRepository(db)
	configService := configuration.NewService(configRepo, slotRepo)

	start := nextMonday(time.Now())
	end := start.AddDate(0, 0, 13)

	shifts := make([]configuration.ShiftRequest, 0, 10)
	for day := int(time.Monday); day <= int(time.Friday); day++ {
		shifts = append(shifts,
			configuration.ShiftRequest{
				DayOfWeek:    day,
				Type:         string(domain.ShiftMorning),
				StartTime:    "09:00",
				EndTime:      "12:00",
				StationCount: 3,
			},
			configuration.ShiftRequest{
				DayOfWeek:    day,
				Type:         string(domain.ShiftAfternoon),
				StartTime:    "14:00",
				EndTime:      "18:00",
				StationCount: 2,
			},
		)
	}

	created, err := configService.Create(context.Background(), configuration.SaveConfigurationRequest{
		StartDate:                  start.Format("2006-01-02"),
		EndDate:                    end.Format("2006-01-02"),
		AppointmentDurationMinutes: 30,
		Shifts:                     shifts,
	})
	if err != nil {
		log.Fatal("Seeding configuration failed:", err)
	}

	log.Printf("Configuration %d seeded with %d time slots", created.ID, created.TimeSlotsCount)
}

func nextMonday(now time.Time) time.Time {
	d := domain.DateOnly(now)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
