package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/api"
	"github.com/rpupo63/portfolio-site/auth"
	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/services"
	"github.com/rpupo63/portfolio-site/storage"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg)

	log.Info().Str("dbType", cfg.Database.Type).Msg("Initializing app...")

	db, err := database.Open(cfg.Database, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// If generating column mismatch report, run report and exit
	if cfg.Tasks.GenerateColumnReport {
		log.Info().Msg("Generating column mismatch report...")
		if err := models.GenerateColumnMismatchReportStandalone(db); err != nil {
			log.Fatal().Err(err).Msg("Column report failed")
		}
		return
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Error running migrations")
	}
	currentDB := database.New(db)

	// If generating models, run generation and exit
	if cfg.Tasks.GenerateModels {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("Model generation failed")
		}
		return
	}

	if cfg.Tasks.SeedData {
		if err := database.Seed(ctx, currentDB); err != nil {
			log.Fatal().Err(err).Msg("Error seeding database")
		}
		log.Info().Msg("Database seeded")
		return
	}

	if cfg.Tasks.CreateAdminUser {
		if err := createAdminUser(ctx, cfg.Auth, currentDB); err != nil {
			log.Fatal().Err(err).Msg("Error creating admin user")
		}
		return
	}

	mailer, err := services.NewMailer(cfg.Email)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing mailer")
	}

	assets, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing asset storage")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(cfg, api.Dependencies{
		Database: currentDB,
		Mailer:   mailer,
		Assets:   assets,
		Tokens:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// createAdminUser creates the ADMIN_USERNAME account or resets its password
func createAdminUser(ctx context.Context, cfg config.AuthConfig, db database.Database) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	user, err := database.EnsureAdmin(ctx, db, cfg.AdminUsername, hash)
	if err != nil {
		return err
	}
	log.Info().Str("username", user.Username).Msg("Admin user ready")
	return nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
