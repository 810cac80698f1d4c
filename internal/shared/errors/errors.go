package errors

import "errors"

var (
	ErrMissingBotToken = errors.New("TELEGRAM_BOT_TOKEN environment variable is required")

	// ErrUnauthorized is returned for any action attempted by a non-admin actor.
	ErrUnauthorized = errors.New("unauthorized user")

	// ErrDuplicateChannel means the registry already holds a channel with the
	// same normalized identity. Informational, never mutates state.
	ErrDuplicateChannel = errors.New("channel already exists")

	ErrChannelNotFound = errors.New("channel not found")

	// ErrUnresolvedInput means the admin's input matched none of the accepted
	// channel forms (@username, numeric ID, forwarded channel message).
	ErrUnresolvedInput = errors.New("could not resolve channel from input")

	// ErrNotChannelAdmin means the bot is present in the target chat but lacks
	// the administrator role, so broadcasts there would fail.
	ErrNotChannelAdmin = errors.New("bot is not an administrator in the target channel")

	// ErrVerificationUnavailable means the membership check itself failed.
	// Registration proceeds anyway with a warning attached.
	ErrVerificationUnavailable = errors.New("could not verify admin status in target channel")
)
