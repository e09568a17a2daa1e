package domain

import "context"

// ToolInvocation is a mid-turn request from the reasoning engine to run
// a named tool with the supplied arguments. Consumed within the turn.
type ToolInvocation struct {
	Name string
	Args map[string]any
}

// EventKind tags the variants of the engine event stream.
type EventKind string

const (
	EventText       EventKind = "text"       // partial text, more events follow
	EventFinal      EventKind = "final"      // terminal answer for the turn
	EventToolCall   EventKind = "tool_call"  // engine wants a tool executed
	EventEscalation EventKind = "escalation" // engine cannot complete the turn
)

// EngineEvent is one element of the ordered event stream the engine
// emits for a single turn.
type EngineEvent struct {
	Kind       EventKind
	Text       string
	Invocation *ToolInvocation // set when Kind == EventToolCall
	Reason     string          // set when Kind == EventEscalation
}

// ToolDeclaration describes one tool to the reasoning engine.
type ToolDeclaration struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON-schema shaped
	Internal    bool           // never surfaced verbatim to the user
}

// TurnRequest is everything the engine needs to begin one turn.
type TurnRequest struct {
	Persona     string
	Tools       []ToolDeclaration
	Context     ConversationContext
	UserMessage string
}

// EngineTurn is one open turn against the reasoning engine. Next blocks
// while the engine thinks; events are delivered strictly in emission
// order. After an EventToolCall the orchestrator must submit the result
// before asking for the next event.
type EngineTurn interface {
	Next(ctx context.Context) (EngineEvent, error)
	SubmitToolResult(ctx context.Context, name string, result map[string]any) error
}

// ReasoningEngine is the opaque language-model-driven decision process.
type ReasoningEngine interface {
	BeginTurn(ctx context.Context, req TurnRequest) (EngineTurn, error)
}

// SessionStore owns every Session of the process. Ensure is idempotent:
// a second call with the same key returns the existing session untouched.
type SessionStore interface {
	Ensure(ctx context.Context, key SessionKey) (*Session, bool, error)
	Get(ctx context.Context, key SessionKey) (*Session, error)
	AppendTurn(ctx context.Context, key SessionKey, turn *Turn) error
	History(ctx context.Context, key SessionKey, limit int) ([]*Turn, error)
}
