package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/osapicare/atende-agent/internal/domain"
)

// ScriptedEngine replays a fixed event script for every turn. It serves
// two purposes: a deterministic reasoning engine for tests, and the
// fallback when no API key is configured. With an empty script it
// simply echoes the user message as a final answer.
type ScriptedEngine struct {
	Script []domain.EngineEvent
	// Repeat restarts the script when it runs out instead of ending
	// the turn. Used to exercise the orchestrator's loop budget.
	Repeat bool

	mu        sync.Mutex
	submitted []SubmittedResult
}

// SubmittedResult records one tool result fed back by the orchestrator.
type SubmittedResult struct {
	Name   string
	Result map[string]any
}

func NewScriptedEngine(events ...domain.EngineEvent) *ScriptedEngine {
	return &ScriptedEngine{Script: events}
}

// Submitted returns a copy of every tool result received so far.
func (e *ScriptedEngine) Submitted() []SubmittedResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]SubmittedResult, len(e.submitted))
	copy(out, e.submitted)
	return out
}

func (e *ScriptedEngine) BeginTurn(_ context.Context, req domain.TurnRequest) (domain.EngineTurn, error) {
	return &scriptedTurn{
		engine:      e,
		userMessage: req.UserMessage,
	}, nil
}

type scriptedTurn struct {
	engine      *ScriptedEngine
	userMessage string
	pos         int
	done        bool
}

func (t *scriptedTurn) Next(_ context.Context) (domain.EngineEvent, error) {
	if t.done {
		return domain.EngineEvent{}, fmt.Errorf("scripted: turn already finished")
	}

	script := t.engine.Script
	if len(script) == 0 {
		t.done = true
		return domain.EngineEvent{
			Kind: domain.EventFinal,
			Text: fmt.Sprintf("Estou operando sem o modelo de linguagem. Você disse: %q", t.userMessage),
		}, nil
	}

	if t.pos >= len(script) {
		if t.engine.Repeat {
			t.pos = 0
		} else {
			t.done = true
			return domain.EngineEvent{
				Kind:   domain.EventEscalation,
				Reason: "script exhausted without a final event",
			}, nil
		}
	}

	ev := script[t.pos]
	t.pos++
	if ev.Kind == domain.EventFinal || ev.Kind == domain.EventEscalation {
		t.done = true
	}
	return ev, nil
}

func (t *scriptedTurn) SubmitToolResult(_ context.Context, name string, result map[string]any) error {
	t.engine.mu.Lock()
	defer t.engine.mu.Unlock()
	t.engine.submitted = append(t.engine.submitted, SubmittedResult{Name: name, Result: result})
	return nil
}
