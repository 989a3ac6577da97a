package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTarget records sends and edits of the status message.
type fakeTarget struct {
	sends   []string
	edits   []string
	editIDs []string
	sendErr error
	editErr error
}

func (f *fakeTarget) SendStatus(_ context.Context, text string) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sends = append(f.sends, text)
	return "msg-1", nil
}

func (f *fakeTarget) EditStatus(_ context.Context, id, text string) error {
	if f.editErr != nil {
		return f.editErr
	}
	f.editIDs = append(f.editIDs, id)
	f.edits = append(f.edits, text)
	return nil
}

func TestRenderInitialSnapshot(t *testing.T) {
	tracker := New(&fakeTarget{}, []string{"general", "random", "dev"})

	assert.Equal(t,
		":white_medium_square: general\n:white_medium_square: random\n:white_medium_square: dev",
		tracker.Render())
}

func TestRenderReflectsStatuses(t *testing.T) {
	tracker := New(&fakeTarget{}, []string{"general", "random", "dev", "ops"})
	tracker.SetStatus("general", StatusDone)
	tracker.SetStatus("random", StatusError)
	tracker.SetStatus("dev", StatusInProgress)

	assert.Equal(t,
		":white_check_mark: general\n:warning: random\n:arrow_right: dev\n:white_medium_square: ops",
		tracker.Render())
}

func TestSetStatusIgnoresUnknownLabel(t *testing.T) {
	tracker := New(&fakeTarget{}, []string{"general"})
	tracker.SetStatus("nope", StatusDone)

	assert.Equal(t, ":white_medium_square: general", tracker.Render())
}

func TestDuplicateLabelsCollapse(t *testing.T) {
	tracker := New(&fakeTarget{}, []string{"general", "general"})

	assert.Equal(t, ":white_medium_square: general", tracker.Render())
}

func TestPublishCreatesOnceThenEdits(t *testing.T) {
	target := &fakeTarget{}
	tracker := New(target, []string{"general"})

	require.NoError(t, tracker.Publish(context.Background()))
	tracker.SetStatus("general", StatusInProgress)
	require.NoError(t, tracker.Publish(context.Background()))
	tracker.SetStatus("general", StatusDone)
	require.NoError(t, tracker.Publish(context.Background()))

	assert.Len(t, target.sends, 1, "the status message is created exactly once")
	assert.Len(t, target.edits, 2)
	assert.Equal(t, []string{"msg-1", "msg-1"}, target.editIDs, "every edit targets the same message")
	assert.Equal(t, ":white_check_mark: general", target.edits[1])
}

func TestPublishSendFailureIsRetriedAsSend(t *testing.T) {
	target := &fakeTarget{sendErr: errors.New("network down")}
	tracker := New(target, []string{"general"})

	assert.Error(t, tracker.Publish(context.Background()))

	// Once the transport recovers, the tracker still creates (not edits).
	target.sendErr = nil
	require.NoError(t, tracker.Publish(context.Background()))
	assert.Len(t, target.sends, 1)
	assert.Empty(t, target.edits)
}

func TestPublishPropagatesEditFailure(t *testing.T) {
	target := &fakeTarget{}
	tracker := New(target, []string{"general"})
	require.NoError(t, tracker.Publish(context.Background()))

	target.editErr = errors.New("message deleted")
	assert.Error(t, tracker.Publish(context.Background()))
}

func TestLabels(t *testing.T) {
	tracker := New(&fakeTarget{}, []string{"a", "b", "c", "d"})
	tracker.SetStatus("a", StatusDone)
	tracker.SetStatus("b", StatusError)
	tracker.SetStatus("d", StatusError)

	assert.Equal(t, []string{"b", "d"}, tracker.Labels(StatusError))
	assert.Equal(t, []string{"c"}, tracker.Labels(StatusIdle))
	assert.Empty(t, tracker.Labels(StatusInProgress))
}
