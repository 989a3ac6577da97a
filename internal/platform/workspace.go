// Package platform adapts the Slack Web API to the engine's channel,
// history and member interfaces.
package platform

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"ghost-detector-bot/internal/detector"
	"ghost-detector-bot/pkg/slackapi"

	"github.com/slack-go/slack"
	"go.uber.org/ratelimit"
)

const (
	channelPageSize = 200
	historyPageSize = 200
	// conversations.history is a Tier 3 method; stay under its bucket.
	historyCallsPerMinute = 50
)

// Workspace exposes one Slack workspace to the detector engine. It
// implements detector.HistorySource and detector.MemberResolver.
type Workspace struct {
	api     slackapi.SlackAPI
	limiter ratelimit.Limiter

	mu        sync.Mutex
	userCache map[string]userEntry
}

// userEntry caches a users.info result. ok mirrors the resolver contract:
// false for deleted accounts and unknown IDs.
type userEntry struct {
	member detector.Member
	ok     bool
}

// NewWorkspace creates a Workspace over the given API client.
func NewWorkspace(api slackapi.SlackAPI) (*Workspace, error) {
	if api == nil {
		return nil, fmt.Errorf("slack api instance cannot be nil")
	}
	return &Workspace{
		api:       api,
		limiter:   ratelimit.New(historyCallsPerMinute, ratelimit.Per(time.Minute)),
		userCache: make(map[string]userEntry),
	}, nil
}

// Name returns the workspace display name, used for report filenames.
func (w *Workspace) Name(ctx context.Context) (string, error) {
	team, err := w.api.GetTeamInfoContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch team info: %w", err)
	}
	return team.Name, nil
}

// Channels enumerates the workspace's text channels in platform order.
// Every listed channel is viewable by the bot; history is readable only
// where the bot is a member.
func (w *Workspace) Channels(ctx context.Context) ([]detector.Channel, error) {
	params := &slack.GetConversationsParameters{
		Types:           []string{"public_channel", "private_channel"},
		ExcludeArchived: true,
		Limit:           channelPageSize,
	}

	var channels []detector.Channel
	for {
		w.limiter.Take()
		page, next, err := w.api.GetConversationsContext(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("failed to list conversations: %w", err)
		}
		for _, ch := range page {
			channels = append(channels, detector.Channel{
				ID:             ch.ID,
				Name:           ch.Name,
				CanView:        true,
				CanReadHistory: ch.IsMember,
			})
		}
		if next == "" {
			return channels, nil
		}
		params.Cursor = next
	}
}

// StreamHistory fetches the channel's full history one page at a time and
// feeds each countable event to fn. Slack pages newest-first; each page is
// replayed in chronological order, and the aggregation itself is
// order-independent, so pagination direction cannot change the results.
// An error from fn aborts the stream immediately; remaining pages are
// never fetched.
func (w *Workspace) StreamHistory(ctx context.Context, channelID string, fn func(detector.Message) error) error {
	params := &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Limit:     historyPageSize,
	}

	for {
		w.limiter.Take()
		resp, err := w.api.GetConversationHistoryContext(ctx, params)
		if err != nil {
			return fmt.Errorf("failed to fetch history page for %s: %w", channelID, err)
		}
		for i := len(resp.Messages) - 1; i >= 0; i-- {
			msg, err := toMessage(resp.Messages[i])
			if err != nil {
				return fmt.Errorf("malformed message in %s: %w", channelID, err)
			}
			if err := fn(msg); err != nil {
				return err
			}
		}
		if !resp.HasMore || resp.ResponseMetaData.NextCursor == "" {
			return nil
		}
		params.Cursor = resp.ResponseMetaData.NextCursor
	}
}

// toMessage maps a Slack history event to an engine message. Events
// without a human author (integrations, bot_message subtypes) come out
// with an empty AuthorID and are not counted downstream.
func toMessage(m slack.Message) (detector.Message, error) {
	ts, err := parseSlackTimestamp(m.Timestamp)
	if err != nil {
		return detector.Message{}, err
	}
	authorID := m.User
	if m.BotID != "" || m.SubType == "bot_message" {
		authorID = ""
	}
	return detector.Message{AuthorID: authorID, Timestamp: ts}, nil
}

// ResolveMember looks up a message author, caching results for the
// lifetime of the Workspace. Deleted accounts and unknown IDs resolve to
// ok=false; transport failures are returned as errors and not cached.
func (w *Workspace) ResolveMember(ctx context.Context, userID string) (detector.Member, bool, error) {
	w.mu.Lock()
	entry, cached := w.userCache[userID]
	w.mu.Unlock()
	if cached {
		return entry.member, entry.ok, nil
	}

	w.limiter.Take()
	user, err := w.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "user_not_found") {
			w.storeUser(userID, userEntry{})
			return detector.Member{}, false, nil
		}
		return detector.Member{}, false, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}
	if user.Deleted {
		// Departed members are excluded from aggregation.
		w.storeUser(userID, userEntry{})
		return detector.Member{}, false, nil
	}

	entry = userEntry{member: toMember(user), ok: true}
	w.storeUser(userID, entry)
	return entry.member, entry.ok, nil
}

func (w *Workspace) storeUser(userID string, entry userEntry) {
	w.mu.Lock()
	w.userCache[userID] = entry
	w.mu.Unlock()
}

func toMember(user *slack.User) detector.Member {
	return detector.Member{
		ID:          user.ID,
		Name:        user.Name,
		DisplayName: displayName(user),
		Bot:         user.IsBot || user.ID == "USLACKBOT",
		// Slack does not expose a join date; the profile update time is
		// the closest available signal.
		JoinedAt: user.Updated.Time(),
		Roles:    roleNames(user),
	}
}

func displayName(user *slack.User) string {
	if name := user.Profile.DisplayName; name != "" {
		return name
	}
	if user.RealName != "" {
		return user.RealName
	}
	return user.Name
}

// roleNames derives role labels from the account flags. Ordinary members
// get no labels; the report treats the base role as implicit.
func roleNames(user *slack.User) []string {
	var roles []string
	if user.IsPrimaryOwner {
		roles = append(roles, "primary_owner")
	}
	if user.IsOwner {
		roles = append(roles, "owner")
	}
	if user.IsAdmin {
		roles = append(roles, "admin")
	}
	if user.IsUltraRestricted {
		roles = append(roles, "single_channel_guest")
	} else if user.IsRestricted {
		roles = append(roles, "guest")
	}
	return roles
}

// parseSlackTimestamp converts a Slack "seconds.fraction" ts into a time.
func parseSlackTimestamp(ts string) (time.Time, error) {
	if ts == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	secPart, fracPart, _ := strings.Cut(ts, ".")
	sec, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", ts, err)
	}
	var micros int64
	if fracPart != "" {
		// Pad/truncate the fraction to microseconds.
		const width = 6
		if len(fracPart) > width {
			fracPart = fracPart[:width]
		}
		fracPart += strings.Repeat("0", width-len(fracPart))
		micros, err = strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", ts, err)
		}
	}
	return time.Unix(sec, micros*int64(time.Microsecond)).UTC(), nil
}
