package domain

import "time"

// Stats holds cumulative broadcast counters. Counters only ever grow; they are
// updated exactly once per completed dispatch run, never per channel.
type Stats struct {
	TotalBroadcasts      int        `json:"total_broadcasts"`
	SuccessfulDeliveries int        `json:"successful_broadcasts"`
	FailedDeliveries     int        `json:"failed_broadcasts"`
	LastBroadcastAt      *time.Time `json:"last_broadcast,omitempty"`
}

// RunSummary is one line of dispatch history, kept for the stats view and the
// RSS feed of recent runs.
type RunSummary struct {
	At      time.Time `json:"at"`
	Total   int       `json:"total"`
	Success int       `json:"success"`
	Failed  int       `json:"failed"`
}
