package domain

// SessionKey identifies a session by (application, user, session).
// The same key always resolves to the same session for the process lifetime.
type SessionKey struct {
	App       AppName
	UserID    UserID
	SessionID SessionID
}

// Turn is one entry in a session transcript. Immutable once appended.
type Turn struct {
	ID        TurnID
	Role      Role
	Text      string
	CreatedAt Timestamp
}

// Session holds the transcript of one conversation between a user and
// an agent profile. Turns are append-only; only the stores copy them.
type Session struct {
	Key       SessionKey
	Turns     []*Turn
	CreatedAt Timestamp
	UpdatedAt Timestamp
}

// ConversationContext is the slice of session state handed to the
// reasoning engine each turn.
type ConversationContext struct {
	Key     SessionKey
	History []*Turn // last N turns, oldest first
}
