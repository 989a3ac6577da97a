// Package detector implements the ghost-detection engine: channel
// visibility filtering and the streaming activity aggregation that feeds
// the reports. It talks to the chat platform only through the small
// interfaces below, so the whole engine runs against fakes in tests.
package detector

import (
	"context"
	"time"
)

// Channel is the engine's view of one text channel, in platform order.
type Channel struct {
	ID   string
	Name string
	// CanView and CanReadHistory are the bot's own effective permissions.
	CanView        bool
	CanReadHistory bool
}

// Member is a currently resolvable workspace member. Identity is ID;
// Name is the aggregation sort key for reports.
type Member struct {
	ID            string
	Name          string
	Discriminator string // empty on platforms without one
	DisplayName   string
	Bot           bool
	JoinedAt      time.Time
	Roles         []string
}

// Message is one observed history event. An empty AuthorID means the
// event has no countable author (e.g., an integration posting).
type Message struct {
	AuthorID  string
	Timestamp time.Time
}

// UserInfo accumulates one member's observed activity for the current scan.
// LastMessageAt starts at the zero time and only ever moves forward.
type UserInfo struct {
	Member        Member
	MessageCount  int
	LastMessageAt time.Time
}

// HistorySource streams a channel's full message history oldest-first.
// The stream must be lazy: implementations fetch as they go and stop as
// soon as fn returns an error, which is then returned unchanged.
type HistorySource interface {
	StreamHistory(ctx context.Context, channelID string, fn func(Message) error) error
}

// MemberResolver resolves a message author to a current workspace member.
// ok is false when the author is unknown or has left the workspace; an
// error is reserved for transport-level failures.
type MemberResolver interface {
	ResolveMember(ctx context.Context, userID string) (Member, bool, error)
}
