package domain

import (
	"strconv"
	"strings"
	"time"
)

// Channel represents a broadcast destination the bot can deliver to.
// ID holds either a numeric chat ID in decimal form or an @username.
type Channel struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Username string    `json:"username,omitempty"`
	AddedAt  time.Time `json:"added_at"`
}

// NormalizeID brings a channel identity into canonical form so that equality
// checks do not depend on how the admin originally typed it. Numeric IDs are
// reduced to plain decimal, @usernames are lowercased (Telegram usernames are
// case-insensitive). A @username and the numeric ID it resolves to remain
// distinct identities.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return strings.ToLower(id)
}

// SameID reports whether two identities are equal after normalization.
func SameID(a, b string) bool {
	return NormalizeID(a) == NormalizeID(b)
}
