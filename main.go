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

	"github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

func main() {
	startupTime := time.Now()

	cfg, err := config.Load()
	setupLogger(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log.Info().Str("env", cfg.Environment).Msg("Initializing app...")

	ctx := context.Background()

	db, err := database.Open(cfg.Database.DSN, cfg.Database.ReplicaDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	currentDB := database.New(db)
	defer currentDB.Close()

	// If generating models, run generation and exit
	if cfg.Tasks.GenerateModels {
		if err := models.GenerateModels(db, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("model generation failed")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if cfg.Tasks.ColumnReport {
		if _, err := models.GenerateColumnMismatchReport(db, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("column report failed")
		}
		return
	}

	if cfg.Database.AutoMigrate {
		if err := models.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	}

	if cfg.Tasks.SeedAdmin {
		seedAdmin(ctx, cfg, currentDB)
		return
	}

	var ssmClient config.ParameterGetter
	if cfg.Auth.JWTSecretParameter != "" {
		ssmClient, err = config.NewParameterGetter(ctx, cfg.AWS.Region)
		if err != nil {
			log.Fatal().Err(err).Msg("Error creating SSM client")
		}
	}
	if err := cfg.ResolveJWTSecret(ctx, ssmClient); err != nil {
		log.Fatal().Err(err).Msg("no JWT signing secret configured")
	}

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, auth.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating token service")
	}

	deps := api.Dependencies{
		Config:      cfg,
		Database:    currentDB,
		Sessions:    tokens,
		Auth:        services.NewAdminAuthService(currentDB.AdminUserRepo(), tokens),
		SessionTTL:  tokens.TTL(),
		StartupTime: startupTime,
	}

	if cfg.EmailEnabled() {
		deps.Notifier = services.NewMailer(cfg.Email.ResendAPIKey, cfg.Email.FromEmail, cfg.Email.NotifyEmail)
	} else {
		log.Info().Msg("contact notifications disabled")
	}

	if cfg.StorageEnabled() {
		store, err := services.NewS3ImageStore(ctx, services.ImageStoreConfig{
			Bucket:        cfg.Storage.Bucket,
			Region:        cfg.Storage.Region,
			Endpoint:      cfg.Storage.Endpoint,
			KeyPrefix:     cfg.Storage.KeyPrefix,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Error setting up image storage")
		}
		deps.Images = store
	} else {
		log.Info().Msg("image uploads disabled")
	}

	// Both the server and the signal listener may send; neither must block.
	errChannel := make(chan error, 2)

	server, err := api.NewServer(deps)
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

func seedAdmin(ctx context.Context, cfg config.Config, db database.Database) {
	authService := services.NewAdminAuthService(db.AdminUserRepo(), nil)
	created, err := authService.SeedAdmin(ctx, services.SeedInput{
		Username: cfg.Seed.Username,
		Email:    cfg.Seed.Email,
		Password: cfg.Seed.Password,
		Role:     cfg.Seed.Role,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seeding admin user failed")
	}
	if created {
		log.Info().Str("username", cfg.Seed.Username).Msg("admin user created")
	}
}

// setupLogger uses a console writer in development and JSON elsewhere.
func setupLogger(cfg config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !cfg.IsProduction() {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
