package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/canteen/internal/config"
	"github.com/Skotchmaster/canteen/internal/es"
	"github.com/Skotchmaster/canteen/internal/handlers"
	"github.com/Skotchmaster/canteen/internal/logging"
	auth "github.com/Skotchmaster/canteen/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/canteen/internal/middleware/logging"
	"github.com/Skotchmaster/canteen/internal/mykafka"
	"github.com/Skotchmaster/canteen/internal/repo"
	"github.com/Skotchmaster/canteen/internal/service"
	transport "github.com/Skotchmaster/canteen/internal/transport/http"
)

const foodIndex = "food_items"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	config.MustNonEmpty(cfg.JWT_SECRET, "JWT_SECRET")
	config.MustNonEmpty(cfg.REFRESH_SECRET, "REFRESH_SECRET")

	logger := logging.New(cfg.LOG_LEVEL).With("service", "canteen")
	slog.SetDefault(logger)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	esClient, err := es.NewClient(cfg)
	if err != nil {
		logger.Warn("elasticsearch unavailable, search disabled", "error", err)
		esClient = nil
	}

	var producer *mykafka.Producer
	if cfg.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer(strings.Split(cfg.KAFKA_ADDRESS, ","))
	}

	r := repo.New(db)
	locks := service.NewUserLocks()

	authSvc := &service.AuthService{
		Repo:          r,
		JWTSecret:     []byte(cfg.JWT_SECRET),
		RefreshSecret: []byte(cfg.REFRESH_SECRET),
	}
	cartSvc := &service.CartService{Repo: r, Locks: locks}
	orderSvc := &service.OrderService{Repo: r, Locks: locks}
	catalogSvc := &service.CatalogService{Repo: r}
	adminSvc := &service.AdminService{Repo: r}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	transport.Register(e, &transport.Deps{
		Auth:    &handlers.AuthHandler{Svc: authSvc, Producer: producer},
		Catalog: &handlers.CatalogHandler{Svc: catalogSvc, Producer: producer, ES: esClient, Index: foodIndex},
		Cart:    &handlers.CartHandler{Svc: cartSvc, Producer: producer},
		Order:   &handlers.OrderHandler{Svc: orderSvc, Producer: producer},
		Admin:   &handlers.AdminHandler{Svc: adminSvc, Producer: producer},
		Search:  handlers.NewSearchHandler(esClient, foodIndex),
		AuthMW:  auth.NewAutoRefreshMiddleware([]byte(cfg.JWT_SECRET), authSvc),
	})

	srv := &http.Server{
		Addr:              ":" + os.Getenv("SERVER_PORT"),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}
	if srv.Addr == ":" {
		srv.Addr = ":8080"
	}

	go func() {
		log.Printf("canteen listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if producer != nil {
		_ = producer.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("canteen stopped")
}
