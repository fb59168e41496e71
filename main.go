package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservation/config"
	"github.com/yeremiapane/table-reservation/database"
	"github.com/yeremiapane/table-reservation/mq"
	"github.com/yeremiapane/table-reservation/reservation"
	"github.com/yeremiapane/table-reservation/router"
	"github.com/yeremiapane/table-reservation/services"
	"github.com/yeremiapane/table-reservation/utils"
)

type publisher interface {
	services.EventPublisher
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	utils.InitLogger(cfg.LogLevel)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize DB
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	seed, err := cfg.Tables()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid seed tables: %v", err)
	}
	if _, err := database.SeedTables(db, seed); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed tables: %v", err)
	}

	resCfg, err := cfg.Reservation()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid reservation config: %v", err)
	}
	engine := reservation.NewEngine(resCfg)

	var pub publisher = mq.Nop{}
	if cfg.MQURL != "" {
		p, err := mq.NewPublisher(cfg.MQURL, cfg.MQExchange)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to connect to broker: %v", err)
		}
		pub = p
		utils.InfoLogger.Printf("Publishing events to exchange %s", cfg.MQExchange)
	}
	defer pub.Close()

	bookings := services.NewBookingService(db, engine, pub)
	layout := services.NewLayoutService(db, bookings, cfg.SnapshotRetention)

	// resync status meja berkala, RESYNC_INTERVAL=0 mematikan
	if cfg.ResyncInterval > 0 {
		monitor := services.NewStatusMonitor(bookings, cfg.ResyncInterval)
		monitor.Start()
		defer monitor.Stop()
	} else {
		utils.InfoLogger.Println("Status monitor disabled")
	}

	r := router.SetupRouter(bookings, layout, router.Options{
		CORSOrigin:     cfg.CORSOrigin,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s (timezone %s)", cfg.Port, resCfg.Location)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.InfoLogger.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Error during shutdown: %v", err)
	}
}
