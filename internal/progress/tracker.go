// Package progress renders and publishes the per-channel scan status as a
// single evolving message: created on the first publish, edited in place
// ever after.
package progress

import (
	"context"
	"log"
	"strings"
)

// Status is the scan state of one tracked item.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// statusGlyphs maps each status to its marker in the rendered snapshot.
// The shortcodes render as emoji on the platform side.
var statusGlyphs = map[Status]string{
	StatusIdle:       ":white_medium_square:",
	StatusInProgress: ":arrow_right:",
	StatusDone:       ":white_check_mark:",
	StatusError:      ":warning:",
}

// Target is the destination of the status message.
type Target interface {
	// SendStatus creates the status message and returns its handle.
	SendStatus(ctx context.Context, text string) (id string, err error)
	// EditStatus replaces the content of a previously sent status message.
	EditStatus(ctx context.Context, id, text string) error
}

// Tracker holds the status of an ordered set of labels and mirrors it to
// one message at the target. It is not safe for concurrent mutation; the
// scan drives it from a single goroutine.
type Tracker struct {
	target    Target
	order     []string
	statuses  map[string]Status
	messageID string
}

// New creates a Tracker with every label set to idle, preserving order.
func New(target Target, labels []string) *Tracker {
	statuses := make(map[string]Status, len(labels))
	order := make([]string, 0, len(labels))
	for _, label := range labels {
		if _, dup := statuses[label]; dup {
			continue
		}
		statuses[label] = StatusIdle
		order = append(order, label)
	}
	return &Tracker{target: target, order: order, statuses: statuses}
}

// SetStatus updates one label's status. Unknown labels are ignored with a log
// line; they would otherwise silently grow the snapshot out of order.
func (t *Tracker) SetStatus(label string, status Status) {
	if _, ok := t.statuses[label]; !ok {
		log.Printf("[Progress] Ignoring status %q for unknown label %q", status, label)
		return
	}
	t.statuses[label] = status
}

// Render produces the snapshot: one line per label, in initialization
// order, glyph first.
func (t *Tracker) Render() string {
	var b strings.Builder
	for i, label := range t.order {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(statusGlyphs[t.statuses[label]])
		b.WriteByte(' ')
		b.WriteString(label)
	}
	return b.String()
}

// Labels returns the labels currently in the given status, in
// initialization order.
func (t *Tracker) Labels(status Status) []string {
	var labels []string
	for _, label := range t.order {
		if t.statuses[label] == status {
			labels = append(labels, label)
		}
	}
	return labels
}

// Publish mirrors the current snapshot to the target. The first call
// creates the message; every later call edits that same message, so the
// operator sees one evolving status block rather than a flood.
func (t *Tracker) Publish(ctx context.Context) error {
	text := t.Render()
	if t.messageID == "" {
		id, err := t.target.SendStatus(ctx, text)
		if err != nil {
			return err
		}
		t.messageID = id
		return nil
	}
	return t.target.EditStatus(ctx, t.messageID, text)
}
