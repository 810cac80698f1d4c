package domain

// Flag marks how an admin's next free-form message should be interpreted.
// At most one flag is active per actor; flags live in memory only and are
// lost on restart.
type Flag string

const (
	FlagNone              Flag = ""
	FlagAwaitingChannel   Flag = "awaiting_channel"
	FlagAwaitingBroadcast Flag = "awaiting_broadcast"
)
