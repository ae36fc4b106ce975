package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Application Layer
	appService "remindbot/internal/application/service"

	// Infrastructure Layer
	"remindbot/internal/infrastructure/database/sqlite"
	lineClient "remindbot/internal/infrastructure/line"
	"remindbot/internal/infrastructure/scheduler"
	"remindbot/internal/infrastructure/store"

	// Interfaces Layer
	"remindbot/internal/interfaces/api/handler"
	"remindbot/internal/interfaces/api/router"
	"remindbot/internal/interfaces/command"

	// Packages
	"remindbot/internal/pkg/config"
	appLogger "remindbot/internal/pkg/logger"

	_ "github.com/joho/godotenv/autoload" // Automatically load .env file
	"gorm.io/gorm"
)

func gracefulShutdown(apiServer *http.Server, reminderSvc appService.ReminderService, db *gorm.DB, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")

	// Stop the timers first so no reminder fires against a closed database
	log.Println("Stopping scheduler...")
	reminderSvc.Stop()
	log.Println("Scheduler stopped.")

	log.Println("Closing database connection...")
	if err := sqlite.CloseDB(db); err != nil {
		log.Printf("Error closing database: %v", err)
	} else {
		log.Println("Database connection closed.")
	}

	// The server gets 5 seconds to finish the request it is currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")
	done <- true
}

func main() {
	// --- Initialization ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	appLog := appLogger.New(cfg.LogLevel)
	appLog.Info("Logger initialized.")

	// --- Infrastructure ---
	db, err := sqlite.NewDB(cfg.DBPath, appLog)
	if err != nil {
		appLog.Error("Failed to open database", err)
		os.Exit(1)
	}
	brain := sqlite.NewBrain(db, appLog)
	reminderStore := store.NewReminderStore(brain, cfg.BrainKey, appLog)
	appLog.Info("Database and reminder store initialized.")

	cronScheduler := scheduler.NewScheduler(appLog)

	var notifier appService.Notifier = lineClient.NewLogNotifier(appLog)
	var line *lineClient.Client
	if cfg.LineEnabled() {
		line, err = lineClient.NewClient(cfg.ChannelSecret, cfg.ChannelAccessToken, appLog)
		if err != nil {
			appLog.Error("Failed to create LINE Bot client", err)
			os.Exit(1)
		}
		notifier = line
	} else {
		appLog.Warn("CHANNEL_SECRET or CHANNEL_ACCESS_TOKEN not set, reminders will only be logged")
	}

	// --- Application Services ---
	registry := appService.NewJobRegistry(cronScheduler, appLog)
	reminderSvc := appService.NewReminderService(reminderStore, brain, registry, notifier, appLog)
	appLog.Info("Application services initialized.")

	// --- Reconcile persisted reminders ---
	appLog.Info("Initializing reminder schedules...")
	if err := reminderSvc.Initialize(context.Background()); err != nil {
		// The service stays not-ready; "remind reload brain" or POST /reminders/reload retries.
		appLog.Error("Failed to initialize schedules on startup", err)
	} else {
		appLog.Info(fmt.Sprintf("Reminder schedules initialized, %d running.", reminderSvc.Count()))
	}

	// --- API Handlers ---
	dispatcher := command.NewDispatcher(reminderSvc, time.Now, appLog)
	routerCfg := &router.Config{
		ReminderHandler: handler.NewReminderHandler(reminderSvc, dispatcher, appLog),
		Logger:          appLog,
	}
	if line != nil {
		routerCfg.LineHandler = handler.NewLineHandler(line, dispatcher, appLog)
	}
	echoRouter := router.NewRouter(routerCfg)
	appLog.Info("API handlers initialized.")

	// --- HTTP Server ---
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// --- Start Server & Shutdown Handling ---
	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, reminderSvc, db, done)

	appLog.Info(fmt.Sprintf("Server starting on port %d", cfg.Port))
	err = apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		appLog.Error("HTTP server ListenAndServe error", err)
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for graceful shutdown signal
	<-done
	appLog.Info("Graceful shutdown complete.")
}
