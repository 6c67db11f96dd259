package model

import "time"

// Refresh triggers.
const (
	TriggerPoll = "poll"
	TriggerUser = "user"
)

// RefreshJob asks the pipeline to reload one game's plays.
type RefreshJob struct {
	Game       GameInfo
	Trigger    string
	EnqueuedAt time.Time
}

// UserTriggered reports whether a caller asked for the refresh explicitly.
// User refreshes bypass provider caches.
func (j RefreshJob) UserTriggered() bool {
	return j.Trigger == TriggerUser
}
