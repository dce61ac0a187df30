package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-reservation/internal/config"
	"github.com/iliyamo/movie-reservation/internal/database"
	"github.com/iliyamo/movie-reservation/internal/handler"
	"github.com/iliyamo/movie-reservation/internal/middleware"
	"github.com/iliyamo/movie-reservation/internal/queue"
	"github.com/iliyamo/movie-reservation/internal/repository"
	"github.com/iliyamo/movie-reservation/internal/router"
	"github.com/iliyamo/movie-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and caching disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	profiles := repository.NewProfileRepo(db)
	tokens := repository.NewTokenRepo(db)
	movies := repository.NewMovieRepo(db)
	screens := repository.NewScreenRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	seats := repository.NewSeatRepo(db)
	reservations := repository.NewReservationRepo(db)

	// Reservation engine over the transactional store.
	engine := service.NewEngine(repository.NewStore(db))

	publisher := &queue.Publisher{URL: cfg.AMQPURL, Queue: cfg.EventQueue}

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, profiles, tokens)
	catalogH := handler.NewCatalogHandler(movies, showtimes, seats)
	reservationH := handler.NewReservationHandler(engine, reservations, showtimes, users, publisher)
	profileH := handler.NewProfileHandler(profiles, reservations)
	adminH := handler.NewAdminHandler(movies, screens, engine)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, catalogH, config.LoadCacheConfig(), rdb)
	router.RegisterCustomer(e, reservationH, profileH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	if cfg.AMQPURL != "" {
		go func() {
			if err := queue.StartNotificationConsumer(cfg); err != nil {
				log.Printf("notification consumer stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
