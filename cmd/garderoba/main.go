package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"garderoba/internal/api"
	"garderoba/internal/config"
	"garderoba/internal/db"
	"garderoba/internal/imaging"
	"garderoba/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: garderoba <init|serve>")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		cmdInit(os.Args[2:])
	case "serve":
		cmdServe(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\nUsage: garderoba <init|serve>\n", os.Args[1])
		os.Exit(1)
	}
}

func cmdInit(args []string) {
	cfg := config.Load()

	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dbPath := fs.String("db", cfg.Database.Path, "path to SQLite database file")
	fs.Parse(args)

	if _, err := os.Stat(*dbPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: database file %s already exists\n", *dbPath)
		os.Exit(1)
	}

	if err := initDatabase(*dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database created: %s\n", *dbPath)
	fmt.Println("Schema initialized.")
}

func cmdServe(args []string) {
	cfg := config.Load()

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	dbPath := fs.String("db", cfg.Database.Path, "path to SQLite database file")
	addr := fs.String("addr", ":"+cfg.Server.Port, "listen address")
	fs.Parse(args)

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: setting up logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	// Auto-init the database on first run.
	if _, err := os.Stat(*dbPath); os.IsNotExist(err) {
		if err := initDatabase(*dbPath); err != nil {
			log.Fatal("failed to initialize database", zap.Error(err))
		}
		log.Info("database created", zap.String("path", *dbPath))
	}

	database, err := db.Open(*dbPath)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close()

	// Migrations are idempotent.
	if err := db.Migrate(database); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	processor := imaging.NewProcessor(cfg.Images.MaxConcurrentDecodes)
	handler := api.NewRouter(database, log, processor)

	server := &http.Server{
		Addr:         *addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", *addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}

// initDatabase creates a new database file and runs migrations.
func initDatabase(path string) error {
	database, err := db.Open(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		os.Remove(path)
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
