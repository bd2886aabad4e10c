package main

import (
	"context"
	"log"
	"time"

	"github.com/homerportes/RealStateRD/internal/config"
	"github.com/homerportes/RealStateRD/internal/database"
	"github.com/homerportes/RealStateRD/internal/domain"
	"github.com/homerportes/RealStateRD/internal/middleware"
	"github.com/homerportes/RealStateRD/internal/modules/auth"
	"github.com/homerportes/RealStateRD/internal/modules/booking"
	"github.com/homerportes/RealStateRD/internal/modules/configuration"
	jwtsvc "github.com/homerportes/RealStateRD/internal/pkg/jwt"
	"github.com/homerportes/RealStateRD/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

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

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)

	if n, err := tokenRepo.DeleteExpired(context.Background(), time.Now()); err != nil {
		log.Println("refresh token cleanup failed:", err)
	} else if n > 0 {
		log.Printf("pruned %d expired refresh tokens", n)
	}

	configRepo := repository.NewConfigurationRepository(db)
	slotRepo := repository.NewTimeSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.UserTokenTTL, cfg.AdminTokenTTL)

	authService := auth.NewService(userRepo, tokenRepo, j, cfg.RefreshTTL)
	authHandler := auth.NewHandler(authService)

	configService := configuration.NewService(configRepo, slotRepo)
	configHandler := configuration.NewHandler(configService)

	bookingService := booking.NewService(slotRepo, bookingRepo)
	bookingHandler := booking.NewHandler(bookingService)

	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	api := r.Group("/api")
	{
		authHandler.RegisterPublicRoutes(api)

		authed := api.Group("/")
		authed.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(authed)
			bookingHandler.RegisterRoutes(authed)

			admin := authed.Group("/")
			admin.Use(middleware.AdminOnly())
			{
				configHandler.RegisterRoutes(admin)
				bookingHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	log.Println("Listening on", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
