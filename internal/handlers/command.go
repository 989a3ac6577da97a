package handlers

import (
	"context"
	"fmt"
	"strings"

	"ghost-detector-bot/internal/locales"

	"github.com/slack-go/slack"
)

// HandleHelp handles the /ghosthelp command.
// It lists the available commands with localized descriptions.
func (h *CommandHandler) HandleHelp(ctx context.Context, cmd slack.SlashCommand) error {
	localizer := h.localizer()

	var helpText strings.Builder
	helpText.WriteString(locales.GetMessage(localizer, "MsgHelpHeader", nil) + "\n")
	for _, c := range h.commands {
		localizedDesc := locales.GetMessage(localizer, c.Description, nil)
		helpText.WriteString(fmt.Sprintf("/%s — %s\n", c.Command, localizedDesc))
	}
	helpText.WriteString(locales.GetMessage(localizer, "MsgHelpFooter", nil))

	return h.sendEphemeral(ctx, cmd, helpText.String())
}

// HandleVersion handles the /ghostversion command.
func (h *CommandHandler) HandleVersion(ctx context.Context, cmd slack.SlashCommand) error {
	versionText := locales.GetMessage(h.localizer(), "MsgVersion", map[string]interface{}{
		"Version": h.version,
	})
	return h.sendEphemeral(ctx, cmd, versionText)
}
