package domain

// ChatKind is the type of chat a forwarded message originated from.
type ChatKind string

const (
	ChatKindChannel    ChatKind = "channel"
	ChatKindSupergroup ChatKind = "supergroup"
)

// Role is the bot's own membership role in a target chat.
type Role string

const (
	RoleOwner         Role = "creator"
	RoleAdministrator Role = "administrator"
	RoleMember        Role = "member"
	RoleNone          Role = ""
)

// CanBroadcast reports whether the role is sufficient for posting.
func (r Role) CanBroadcast() bool {
	return r == RoleOwner || r == RoleAdministrator
}

// Input is the raw admin message a channel identity is extracted from:
// either a forwarded message carrying its origin chat, or free text.
type Input struct {
	ForwardChatID   int64
	ForwardChatKind ChatKind
	ForwardTitle    string
	Text            string
}

// ChatInfo is the metadata the messaging platform reports for a chat.
type ChatInfo struct {
	Title    string
	Username string
}

// Resolution is a verified (or best-effort) channel identity ready for
// registration. Warning is set when verification was unavailable and the
// provisional identity was used instead; delivery to such a channel may fail
// later.
type Resolution struct {
	ID       string
	Title    string
	Username string
	Warning  string
}
