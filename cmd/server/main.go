package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"hallbooking/internal/config"
	"hallbooking/internal/database"
	"hallbooking/internal/handler"
	"hallbooking/internal/queue"
	"hallbooking/internal/repository"
	"hallbooking/internal/router"
	"hallbooking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	rdb := config.NewRedisClient() // nil when Redis is not configured

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	bookings := repository.NewBookingRepo(db)
	attachments := repository.NewBookingServiceRepo(db)
	halls := repository.NewHallRepo(db)
	shifts := repository.NewShiftRepo(db)
	services := repository.NewServiceRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, router.Deps{
		Cfg:      cfg,
		Redis:    rdb,
		Accounts: users,
		Auth:     handler.NewAuthHandler(cfg, users, tokens),
		Users:    handler.NewUserHandler(cfg, users),
		Bookings: handler.NewBookingHandler(bookings, attachments, halls, shifts, services, users, service.PublishBookingCreated),
		Halls:    handler.NewHallHandler(halls),
		Shifts:   handler.NewShiftHandler(shifts),
		Services: handler.NewServiceHandler(services),
	})

	// Notification consumer runs for the lifetime of the process and
	// reconnects on broker failures.
	go queue.StartBookingConsumer(cfg.OperatorEmail)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
