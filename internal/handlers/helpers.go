package handlers

import (
	"context"
	"log"

	"ghost-detector-bot/internal/database/models"
	"ghost-detector-bot/internal/locales"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/slack-go/slack"

	"ghost-detector-bot/pkg/slackapi"
)

// localizer returns the localizer for reply strings. Slack slash commands
// carry no per-user language, so the configured bot language is used.
func (h *CommandHandler) localizer() *i18n.Localizer {
	return locales.NewLocalizer(h.language)
}

// sendEphemeral sends a reply only the invoking user can see.
func (h *CommandHandler) sendEphemeral(ctx context.Context, cmd slack.SlashCommand, text string) error {
	_, err := h.api.PostEphemeralContext(ctx, cmd.ChannelID, cmd.UserID, slack.MsgOptionText(text, false))
	if err != nil {
		log.Printf("Error sending ephemeral message to user %s in channel %s: %v", cmd.UserID, cmd.ChannelID, err)
		// Don't return error to user, just log it.
	}
	return nil
}

// sendError reports a generic error to the user and logs the original.
// The original error is returned so the dispatch loop can capture it.
func (h *CommandHandler) sendError(ctx context.Context, cmd slack.SlashCommand, originalErr error) error {
	log.Printf("Error for user %s in channel %s: %v", cmd.UserID, cmd.ChannelID, originalErr)

	errMsg := locales.GetMessage(h.localizer(), "MsgErrorGeneral", nil)
	if _, sendErr := h.api.PostEphemeralContext(ctx, cmd.ChannelID, cmd.UserID, slack.MsgOptionText(errMsg, false)); sendErr != nil {
		log.Printf("Error sending generic error message to user %s: %v", cmd.UserID, sendErr)
	}

	return originalErr
}

// logScan records the scan audit entry. Failures are logged, never
// surfaced to the user.
func (h *CommandHandler) logScan(ctx context.Context, cmd slack.SlashCommand, entry models.ScanLog) {
	if err := h.scanLogger.LogScan(ctx, entry); err != nil {
		log.Printf("Error logging scan for user %s: %v", cmd.UserID, err)
	}
}

// statusTarget delivers the progress snapshot to the invoking channel as
// one message, created once and edited thereafter.
type statusTarget struct {
	api       slackapi.SlackAPI
	channelID string
}

func (t *statusTarget) SendStatus(ctx context.Context, text string) (string, error) {
	_, ts, err := t.api.PostMessageContext(ctx, t.channelID, slack.MsgOptionText(text, false))
	return ts, err
}

func (t *statusTarget) EditStatus(ctx context.Context, id, text string) error {
	_, _, _, err := t.api.UpdateMessageContext(ctx, t.channelID, id, slack.MsgOptionText(text, false))
	return err
}
