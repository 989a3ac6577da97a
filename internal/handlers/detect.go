package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"ghost-detector-bot/internal/config"
	"ghost-detector-bot/internal/database/models"
	"ghost-detector-bot/internal/detector"
	"ghost-detector-bot/internal/locales"
	"ghost-detector-bot/internal/progress"
	"ghost-detector-bot/internal/report"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/slack-go/slack"
)

// HandleDetect handles the /detect command: scan every readable channel's
// full history, publish live progress, and upload the ghost report(s).
// Only workspace admins may run it.
func (h *CommandHandler) HandleDetect(ctx context.Context, cmd slack.SlashCommand) error {
	localizer := h.localizer()
	logPrefix := fmt.Sprintf("[Detect User:%s Team:%s]", cmd.UserID, cmd.TeamDomain)

	isAdmin, err := h.adminChecker.IsAdmin(ctx, cmd.UserID)
	if err != nil {
		return h.sendError(ctx, cmd, fmt.Errorf("admin check failed: %w", err))
	}
	if !isAdmin {
		log.Printf("%s Rejected: caller is not a workspace admin", logPrefix)
		return h.sendEphemeral(ctx, cmd, locales.GetMessage(localizer, "MsgErrorRequiresAdmin", nil))
	}

	maxCount, ok := h.parseMaxCount(cmd.Text)
	if !ok {
		usage := locales.GetMessage(localizer, "MsgDetectUsage", map[string]interface{}{"Default": h.defaultMaxCount})
		return h.sendEphemeral(ctx, cmd, usage)
	}

	startedAt := time.Now().UTC()
	log.Printf("%s Starting scan with max_count=%d", logPrefix, maxCount)
	// The "working" affordance: slash commands leave no message to react
	// to, so the acknowledgement is an ephemeral note.
	_ = h.sendEphemeral(ctx, cmd, locales.GetMessage(localizer, "MsgDetectStarted", nil))

	channels, err := h.workspace.Channels(ctx)
	if err != nil {
		return h.sendError(ctx, cmd, fmt.Errorf("channel enumeration failed: %w", err))
	}
	visible := detector.VisibleChannels(channels)
	if len(visible) == 0 {
		return h.sendEphemeral(ctx, cmd, locales.GetMessage(localizer, "MsgDetectNoChannels", nil))
	}

	labels := make([]string, len(visible))
	for i, ch := range visible {
		labels[i] = ch.Name
	}
	tracker := progress.New(&statusTarget{api: h.api, channelID: cmd.ChannelID}, labels)
	if err := tracker.Publish(ctx); err != nil {
		return h.sendError(ctx, cmd, fmt.Errorf("failed to publish initial progress: %w", err))
	}

	aggregator, err := detector.NewAggregator(h.workspace, h.workspace, maxCount)
	if err != nil {
		return h.sendError(ctx, cmd, err)
	}
	users, err := aggregator.Aggregate(ctx, visible, tracker)
	if err != nil {
		return h.sendError(ctx, cmd, fmt.Errorf("scan aborted: %w", err))
	}
	failed := tracker.Labels(progress.StatusError)

	workspaceName, err := h.workspace.Name(ctx)
	if err != nil {
		log.Printf("%s Falling back to team domain for report filename: %v", logPrefix, err)
		workspaceName = cmd.TeamDomain
	}

	if err := h.uploadReports(ctx, cmd, users, maxCount, workspaceName); err != nil {
		return h.sendError(ctx, cmd, err)
	}

	summary := h.summaryText(localizer, len(users), len(visible), len(failed))
	if _, _, err := h.api.PostMessageContext(ctx, cmd.ChannelID, slack.MsgOptionText(summary, false)); err != nil {
		log.Printf("%s Failed to post summary message: %v", logPrefix, err)
	}

	h.logScan(ctx, cmd, models.ScanLog{
		UserID:          cmd.UserID,
		UserName:        cmd.UserName,
		Workspace:       workspaceName,
		MaxCount:        maxCount,
		ChannelsScanned: len(visible),
		ChannelsFailed:  failed,
		MembersObserved: len(users),
		Duration:        time.Since(startedAt),
		StartedAt:       startedAt,
	})
	log.Printf("%s Scan finished: %d member(s), %d channel(s), %d failed, took %s",
		logPrefix, len(users), len(visible), len(failed), time.Since(startedAt).Round(time.Second))
	return nil
}

// parseMaxCount reads the optional max_count argument. ok is false for
// anything that is not a single non-negative integer.
func (h *CommandHandler) parseMaxCount(text string) (int, bool) {
	arg := strings.TrimSpace(text)
	if arg == "" {
		return h.defaultMaxCount, true
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// uploadReports generates the CSV variant(s) for the configured report
// mode and attaches them to the invoking channel.
func (h *CommandHandler) uploadReports(ctx context.Context, cmd slack.SlashCommand, users map[string]*detector.UserInfo, maxCount int, workspaceName string) error {
	now := time.Now().UTC()

	if h.reportMode == config.ReportModeCombined {
		combined := report.GenerateCombined(users, maxCount)
		return h.uploadFile(ctx, cmd.ChannelID, report.Filename(workspaceName, now, ""), combined)
	}

	pruned, all := report.Generate(users, maxCount)
	if err := h.uploadFile(ctx, cmd.ChannelID, report.Filename(workspaceName, now, "_PRUNED"), pruned); err != nil {
		return err
	}
	return h.uploadFile(ctx, cmd.ChannelID, report.Filename(workspaceName, now, "_ALL"), all)
}

func (h *CommandHandler) uploadFile(ctx context.Context, channelID, filename string, content *bytes.Reader) error {
	_, err := h.api.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		Reader:   content,
		FileSize: content.Len(),
		Filename: filename,
		Title:    filename,
		Channel:  channelID,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	return nil
}

func (h *CommandHandler) summaryText(localizer *i18n.Localizer, members, channels, failed int) string {
	if failed > 0 {
		return locales.GetMessage(localizer, "MsgDetectDoneWithErrors", map[string]interface{}{
			"Members":  members,
			"Channels": channels,
			"Failed":   failed,
		})
	}
	return locales.GetMessage(localizer, "MsgDetectDone", map[string]interface{}{
		"Members":  members,
		"Channels": channels,
	})
}
