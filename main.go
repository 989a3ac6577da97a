package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ghost-detector-bot/internal/auth"
	"ghost-detector-bot/internal/config"
	"ghost-detector-bot/internal/database"
	"ghost-detector-bot/internal/handlers"
	"ghost-detector-bot/internal/locales"
	"ghost-detector-bot/internal/platform"

	appBot "ghost-detector-bot/bot"

	sentry "github.com/getsentry/sentry-go"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize localization bundle
	locales.Init(cfg.DefaultLanguage)

	// Initialize Sentry (if DSN is provided)
	err = sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.AppEnv,
		Release:     cfg.Version,
		Debug:       cfg.Debug,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Flush(2 * time.Second)

	// Creating context for application lifecycle
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB for scan audit logging (optional)
	var scanLogger database.ScanLogger = database.NoopScanLogger{}
	if cfg.MongoDBURI != "" {
		client, db, err := database.ConnectDB(ctx, cfg)
		if err != nil {
			sentry.CaptureException(err)
			log.Fatal(err)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("Error disconnecting from MongoDB: %v", err)
				sentry.CaptureException(err)
			} else {
				log.Println("Disconnected from MongoDB.")
			}
		}()
		scanLogger = database.NewMongoScanLogger(db)
	}

	// --- Bot Initialization ---
	// 1. Create the Slack client and verify credentials
	api := slack.New(
		cfg.SlackBotToken,
		slack.OptionAppLevelToken(cfg.SlackAppToken),
		slack.OptionDebug(cfg.Debug),
	)
	identity, err := api.AuthTestContext(ctx)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Slack auth test failed: %v", err)
	}
	log.Printf("Authenticated as %s in workspace %s", identity.User, identity.Team)

	// 2. Create the Admin Checker
	adminChecker, err := auth.NewAdminChecker(api)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to create admin checker: %v", err)
	}

	// 3. Create the workspace adapter the engine scans through
	workspace, err := platform.NewWorkspace(api)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to create workspace adapter: %v", err)
	}

	// 4. Create the command handler with dependencies
	commandHandler := handlers.NewCommandHandler(api, workspace, adminChecker, scanLogger, cfg)

	// 5. Create the bot wrapper around the socket-mode client
	smClient := socketmode.New(api, socketmode.OptionDebug(cfg.Debug))
	b, err := appBot.New(appBot.BotDeps{
		Client:  smClient,
		Handler: commandHandler,
		Debug:   cfg.Debug,
	})
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}

	// Start the bot's processing loop in a separate goroutine
	go b.Start(ctx)

	// Wait for context cancellation (e.g., SIGINT, SIGTERM)
	<-ctx.Done()

	log.Println("Shutting down bot...")
	b.Stop()

	log.Println("Bot shutdown complete.")
}
