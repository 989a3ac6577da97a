// Package bot wraps the Slack socket-mode connection: it owns the event
// loop, routes slash commands to their handlers, and logs session
// lifecycle transitions.
package bot

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"time"

	"ghost-detector-bot/internal/handlers"

	"github.com/getsentry/sentry-go"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

// Bot represents the main application loop for the ghost detector.
type Bot struct {
	client  *socketmode.Client
	handler *handlers.CommandHandler
	debug   bool
	done    chan struct{}
}

// BotDeps holds the dependencies required by the Bot.
type BotDeps struct {
	Client  *socketmode.Client
	Handler *handlers.CommandHandler
	Debug   bool
}

// New creates a new Bot instance from its dependencies.
// Returns the new Bot instance or an error if dependencies are missing.
func New(deps BotDeps) (*Bot, error) {
	if deps.Client == nil {
		return nil, fmt.Errorf("socket mode client cannot be nil")
	}
	if deps.Handler == nil {
		return nil, fmt.Errorf("command handler cannot be nil")
	}
	return &Bot{
		client:  deps.Client,
		handler: deps.Handler,
		debug:   deps.Debug,
		done:    make(chan struct{}),
	}, nil
}

// Start runs the socket-mode connection and the event dispatch loop until
// the context is cancelled.
func (b *Bot) Start(ctx context.Context) {
	go b.dispatchLoop(ctx)

	if err := b.client.RunContext(ctx); err != nil && ctx.Err() == nil {
		log.Printf("Socket mode run ended with error: %v", err)
		sentry.CaptureException(fmt.Errorf("socket mode run failed: %w", err))
	}
	close(b.done)
}

// Stop waits for the event loop to drain after the run context is
// cancelled.
func (b *Bot) Stop() {
	<-b.done
	log.Println("Bot event loop stopped.")
}

// dispatchLoop routes incoming socket-mode events. Session lifecycle
// events are logged; slash commands are acked immediately and handled in
// their own goroutine, since a full scan can run for minutes.
func (b *Bot) dispatchLoop(ctx context.Context) {
	for evt := range b.client.Events {
		switch evt.Type {
		case socketmode.EventTypeConnecting:
			log.Println("Connecting to Slack...")
		case socketmode.EventTypeConnected:
			log.Println("Client connected")
		case socketmode.EventTypeHello:
			log.Println("Session established")
		case socketmode.EventTypeConnectionError:
			log.Printf("Connection failed, will retry: %v", evt.Data)
		case socketmode.EventTypeDisconnect:
			log.Println("Client disconnected")
		case socketmode.EventTypeIncomingError:
			log.Printf("Incoming event error: %v", evt.Data)
			sentry.CaptureException(fmt.Errorf("incoming event error: %v", evt.Data))
		case socketmode.EventTypeSlashCommand:
			if evt.Request != nil {
				b.client.Ack(*evt.Request)
			}
			cmd, ok := evt.Data.(slack.SlashCommand)
			if !ok {
				log.Printf("Ignoring malformed slash command payload: %+v", evt.Data)
				continue
			}
			go b.processCommand(ctx, cmd)
		default:
			if b.debug {
				log.Printf("Ignoring unhandled event type: %s", evt.Type)
			}
		}
	}
}

// processCommand runs one slash command invocation.
func (b *Bot) processCommand(ctx context.Context, cmd slack.SlashCommand) {
	command := strings.TrimPrefix(cmd.Command, "/")
	logPrefix := fmt.Sprintf("[Cmd:%s User:%s]", command, cmd.UserID)

	// Handle potential panics in handlers
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC recovered in processCommand: %v\n%s", r, debug.Stack())
			sentry.CurrentHub().Recover(r)
			sentry.Flush(time.Second * 2)
		}
	}()

	handlerFunc := b.handler.GetCommandHandler(command)
	if handlerFunc == nil {
		log.Printf("%s No handler found", logPrefix)
		return
	}

	if b.debug {
		log.Printf("%s Executing handler", logPrefix)
	}
	// No per-command timeout: a full history scan legitimately runs for
	// minutes and is bounded by the application context instead.
	if err := handlerFunc(ctx, cmd); err != nil {
		log.Printf("%s Handler error: %v", logPrefix, err)
		sentry.CaptureException(fmt.Errorf("%s handler error: %w", logPrefix, err))
	} else if b.debug {
		log.Printf("%s Handler finished successfully", logPrefix)
	}
}
