package app

import (
	"context"
	"time"

	"github.com/vovakirdan/meetrelay-server/internal/store"
)

// meetingRecorder adapts the meeting store to the hub's Recorder
// interface: every authenticated join lands in the user's meeting
// history. Errors are the hub's to log; the relay never depends on
// this call succeeding.
type meetingRecorder struct {
	store store.MeetingStore
}

func newMeetingRecorder(st store.MeetingStore) *meetingRecorder {
	return &meetingRecorder{store: st}
}

func (r *meetingRecorder) RecordJoin(ctx context.Context, userID int64, _ string, roomID string, at time.Time) error {
	_, err := r.store.AddMeeting(ctx, userID, roomID, at)
	return err
}
