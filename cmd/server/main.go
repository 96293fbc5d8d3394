package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/mihirt/rollcall/internal/checkin"
	"github.com/mihirt/rollcall/internal/config"
	"github.com/mihirt/rollcall/internal/database"
	"github.com/mihirt/rollcall/internal/debounce"
	"github.com/mihirt/rollcall/internal/handler"
	"github.com/mihirt/rollcall/internal/queue"
	"github.com/mihirt/rollcall/internal/repository"
	"github.com/mihirt/rollcall/internal/roster"
	"github.com/mihirt/rollcall/internal/router"
	"github.com/mihirt/rollcall/internal/scope"
)

func main() {
	// Load .env when present; real deployments set env vars directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis is optional: without it debounce fails open and the event
	// listing is uncached.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, scan debounce and event cache disabled")
	}

	eventRepo := repository.NewEventRepo(db)
	attendeeRepo := repository.NewAttendeeRepo(db)
	operatorRepo := repository.NewOperatorRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	selector := scope.NewSelector()
	importer := roster.NewImporter(attendeeRepo, cfg.ProbeTimeout, cfg.CommitTimeout)
	resolver := checkin.NewResolver(attendeeRepo, cfg.CommitTimeout)
	guard := debounce.New(rdb, cfg.DebounceTTL)

	authHandler := handler.NewAuthHandler(cfg, operatorRepo, tokenRepo)
	eventHandler := handler.NewEventHandler(eventRepo, attendeeRepo, selector, rdb, cfg.EventCacheTTL)
	attendeeHandler := handler.NewAttendeeHandler(eventRepo, attendeeRepo)
	rosterHandler := handler.NewRosterHandler(eventRepo, importer)
	checkInHandler := handler.NewCheckInHandler(resolver, selector, guard)

	// Background consumer mirrors confirmations into logs/checkin.log.
	go func() {
		if err := queue.StartCheckInConsumer(); err != nil {
			log.Printf("checkin-consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterCheckIn(e, eventHandler, attendeeHandler, rosterHandler, checkInHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
