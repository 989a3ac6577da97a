package handlers

import (
	"context"
	"log"

	"ghost-detector-bot/internal/auth"
	"ghost-detector-bot/internal/config"
	"ghost-detector-bot/internal/database"
	"ghost-detector-bot/internal/detector"

	"github.com/slack-go/slack"

	"ghost-detector-bot/pkg/slackapi"
)

// WorkspaceSource is everything the detect command needs from the chat
// platform: channel enumeration, history streaming and member resolution.
type WorkspaceSource interface {
	Name(ctx context.Context) (string, error)
	Channels(ctx context.Context) ([]detector.Channel, error)
	detector.HistorySource
	detector.MemberResolver
}

// Command represents a slash command, mapping its name to a description
// key and handler function.
type Command struct {
	Command     string // The command name without the leading slash (e.g., "detect").
	Description string // Locale key for the /ghosthelp listing.
	Handler     func(context.Context, slack.SlashCommand) error
}

// CommandHandler handles incoming slash commands. It orchestrates the
// ghost scan (filter, aggregate, report, upload) and the auxiliary
// help/version commands.
type CommandHandler struct {
	api       slackapi.SlackAPI
	workspace WorkspaceSource

	defaultMaxCount int
	reportMode      string
	version         string
	language        string

	// commands holds the list of available slash commands.
	commands []Command

	scanLogger   database.ScanLogger
	adminChecker *auth.AdminChecker
}

// NewCommandHandler creates and initializes a new CommandHandler instance.
func NewCommandHandler(
	api slackapi.SlackAPI,
	workspace WorkspaceSource,
	adminChecker *auth.AdminChecker,
	scanLogger database.ScanLogger,
	cfg *config.Config,
) *CommandHandler {
	if api == nil || workspace == nil || adminChecker == nil || scanLogger == nil || cfg == nil {
		log.Fatal("CommandHandler: missing required dependency")
	}
	h := &CommandHandler{
		api:             api,
		workspace:       workspace,
		defaultMaxCount: cfg.DefaultMaxCount,
		reportMode:      cfg.ReportMode,
		version:         cfg.Version,
		language:        cfg.DefaultLanguage,
		scanLogger:      scanLogger,
		adminChecker:    adminChecker,
	}
	h.commands = []Command{
		{Command: "detect", Description: "CmdDetectDesc", Handler: h.HandleDetect},
		{Command: "ghosthelp", Description: "CmdHelpDesc", Handler: h.HandleHelp},
		{Command: "ghostversion", Description: "CmdVersionDesc", Handler: h.HandleVersion},
	}
	return h
}

// GetCommandHandler retrieves the handler function associated with a
// specific command name (e.g., "detect"). It returns nil if the command
// is not found.
func (h *CommandHandler) GetCommandHandler(command string) func(context.Context, slack.SlashCommand) error {
	for _, cmd := range h.commands {
		if cmd.Command == command {
			return cmd.Handler
		}
	}
	return nil
}
