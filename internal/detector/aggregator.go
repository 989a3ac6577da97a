package detector

import (
	"context"
	"fmt"
	"log"

	"ghost-detector-bot/internal/progress"

	"github.com/getsentry/sentry-go"
)

// ProgressSink receives per-channel status transitions while a scan runs.
// The aggregator drives it strictly sequentially, one channel at a time.
type ProgressSink interface {
	SetStatus(label string, status progress.Status)
	Publish(ctx context.Context) error
}

// Aggregator builds per-member activity records by streaming every
// channel's history. maxCount is the privacy cap: counting a member stops
// silently once their count reaches it.
type Aggregator struct {
	source   HistorySource
	members  MemberResolver
	maxCount int
}

// NewAggregator creates an Aggregator from its dependencies.
func NewAggregator(source HistorySource, members MemberResolver, maxCount int) (*Aggregator, error) {
	if source == nil {
		return nil, fmt.Errorf("history source cannot be nil")
	}
	if members == nil {
		return nil, fmt.Errorf("member resolver cannot be nil")
	}
	if maxCount < 0 {
		return nil, fmt.Errorf("max count must be >= 0, got %d", maxCount)
	}
	return &Aggregator{source: source, members: members, maxCount: maxCount}, nil
}

// Aggregate traverses the given channels in order, oldest message first,
// and returns the accumulated records keyed by member ID.
//
// A failure inside one channel's stream is contained: the channel is
// marked with an error status and the scan moves on. Every channel is
// attempted exactly once. The returned error is only non-nil for faults
// outside that containment, i.e. a failed progress publish.
func (a *Aggregator) Aggregate(ctx context.Context, channels []Channel, prog ProgressSink) (map[string]*UserInfo, error) {
	users := make(map[string]*UserInfo)
	// Authors already found to be bots or departed members; their later
	// messages are dropped without another resolver round-trip.
	skip := make(map[string]bool)

	for _, ch := range channels {
		prog.SetStatus(ch.Name, progress.StatusInProgress)
		if err := prog.Publish(ctx); err != nil {
			return nil, fmt.Errorf("failed to publish progress for channel %s: %w", ch.Name, err)
		}

		err := a.source.StreamHistory(ctx, ch.ID, func(msg Message) error {
			return a.observe(ctx, msg, users, skip)
		})
		if err != nil {
			log.Printf("[Detect Channel:%s] history scan failed: %v", ch.Name, err)
			sentry.CaptureException(fmt.Errorf("history scan failed (channel=%s): %w", ch.Name, err))
			prog.SetStatus(ch.Name, progress.StatusError)
		} else {
			prog.SetStatus(ch.Name, progress.StatusDone)
		}

		if err := prog.Publish(ctx); err != nil {
			return nil, fmt.Errorf("failed to publish progress for channel %s: %w", ch.Name, err)
		}
	}

	return users, nil
}

// observe folds one message into the accumulator. Returning an error
// aborts the current channel's stream.
func (a *Aggregator) observe(ctx context.Context, msg Message, users map[string]*UserInfo, skip map[string]bool) error {
	if msg.AuthorID == "" || skip[msg.AuthorID] {
		return nil
	}

	info, seen := users[msg.AuthorID]
	if !seen {
		member, ok, err := a.members.ResolveMember(ctx, msg.AuthorID)
		if err != nil {
			return fmt.Errorf("failed to resolve author %s: %w", msg.AuthorID, err)
		}
		if !ok || member.Bot {
			// Bots and departed members contribute nothing.
			skip[msg.AuthorID] = true
			return nil
		}
		info = &UserInfo{Member: member}
		users[msg.AuthorID] = info
	}

	if info.MessageCount < a.maxCount {
		// Only count up to the cap for privacy reasons.
		info.MessageCount++
	}
	if msg.Timestamp.After(info.LastMessageAt) {
		info.LastMessageAt = msg.Timestamp
	}
	return nil
}
