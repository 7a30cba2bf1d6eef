package model

import "time"

// PollHealth summarizes recent status polls
type PollHealth struct {
	LastAttempt         time.Time
	LastSuccess         time.Time
	LastError           string
	ConsecutiveFailures int
	TotalPolls          int
	TotalFailures       int
}

// Healthy reports whether the most recent poll succeeded
func (h PollHealth) Healthy() bool {
	return h.ConsecutiveFailures == 0
}

// Polled reports whether any poll has been attempted yet
func (h PollHealth) Polled() bool {
	return !h.LastAttempt.IsZero()
}
