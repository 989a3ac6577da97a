package slackapi

import (
	"context"

	"github.com/slack-go/slack"
)

// SlackAPI defines the interface for Slack Web API operations used by various packages.
// This allows using both the real slack.Client and mocks.
type SlackAPI interface {
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
	GetTeamInfoContext(ctx context.Context) (*slack.TeamInfo, error)

	// Channel enumeration and history traversal
	GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) ([]slack.Channel, string, error)
	GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)

	// Member resolution
	GetUserInfoContext(ctx context.Context, user string) (*slack.User, error)

	// Methods required by the progress tracker and command replies
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error)
	PostEphemeralContext(ctx context.Context, channelID, userID string, options ...slack.MsgOption) (string, error)

	// Report delivery
	UploadFileV2Context(ctx context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error)
}
