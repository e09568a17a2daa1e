package agentflow

import (
	"context"
	"fmt"
	"time"

	"github.com/osapicare/atende-agent/internal/app/tools"
	"github.com/osapicare/atende-agent/internal/domain"
	"github.com/osapicare/atende-agent/internal/observability"
)

// Profile binds one agent application to its persona and tool registry.
type Profile struct {
	App      domain.AppName
	Persona  string
	Registry *tools.Registry
}

// Apologetic terminal messages. The transcript always gains an
// assistant turn, even when the engine or a tool lets us down.
const (
	replyGeneric    = "Desculpe, ocorreu um erro ao processar a sua mensagem. Tente novamente."
	replyLoopBudget = "Desculpe, não consegui concluir o pedido: o limite de chamadas de ferramentas desta conversa foi excedido."
)

// Turn outcomes, used as metric labels.
const (
	OutcomeOK          = "ok"
	OutcomeEscalated   = "escalated"
	OutcomeLoopBudget  = "loop_budget"
	OutcomeEngineError = "engine_error"
	OutcomePanic       = "panic"
)

// Orchestrator drives one turn against the reasoning engine: it
// consumes the event stream strictly in emission order, executes
// requested tool calls and feeds their results back, and terminates on
// a final or escalation event, or when the loop budget runs out.
type Orchestrator struct {
	engine      domain.ReasoningEngine
	loopBudget  int
	callTimeout time.Duration
	metrics     *observability.Metrics
}

func New(engine domain.ReasoningEngine, loopBudget int, callTimeout time.Duration, metrics *observability.Metrics) *Orchestrator {
	if loopBudget <= 0 {
		loopBudget = 10
	}
	if callTimeout <= 0 {
		callTimeout = 8 * time.Second
	}
	return &Orchestrator{
		engine:      engine,
		loopBudget:  loopBudget,
		callTimeout: callTimeout,
		metrics:     metrics,
	}
}

// RunTurn processes one user message and always produces a user-visible
// reply; failures of any kind become apologetic terminal messages, never
// a fault that escapes the turn boundary.
func (o *Orchestrator) RunTurn(
	ctx context.Context,
	profile *Profile,
	convCtx domain.ConversationContext,
	userMessage string,
) (reply string, outcome string) {

	log := observability.LoggerFromContext(ctx).With(
		"app", profile.App,
		"session_id", convCtx.Key.SessionID,
		"user_id", convCtx.Key.UserID,
	)

	start := time.Now()
	toolCalls := 0

	defer func() {
		if r := recover(); r != nil {
			log.Error("turn panicked", "panic", r)
			reply, outcome = replyGeneric, OutcomePanic
		}
		o.metrics.ObserveTurn(string(profile.App), outcome, time.Since(start))
		if o.metrics != nil {
			o.metrics.EngineRounds.Observe(float64(toolCalls + 1))
		}
		log.Info("turn finished",
			"outcome", outcome,
			"tool_calls", toolCalls,
			"elapsed_ms", time.Since(start).Milliseconds())
	}()

	log.Info("turn started")

	turn, err := o.engine.BeginTurn(ctx, domain.TurnRequest{
		Persona:     profile.Persona,
		Tools:       profile.Registry.Declarations(),
		Context:     convCtx,
		UserMessage: userMessage,
	})
	if err != nil {
		log.Error("engine refused the turn", "error", err)
		return replyGeneric, OutcomeEngineError
	}

	for {
		ev, err := turn.Next(ctx)
		if err != nil {
			log.Error("engine event stream failed", "error", err)
			return replyGeneric, OutcomeEngineError
		}

		switch ev.Kind {
		case domain.EventText:
			// Mid-turn narration; only the final event is rendered.
			log.Info("partial text", "len", len(ev.Text))

		case domain.EventFinal:
			return ev.Text, OutcomeOK

		case domain.EventEscalation:
			log.Warn("engine escalated", "reason", ev.Reason)
			return fmt.Sprintf("Desculpe, não consegui concluir este pedido: %s", ev.Reason), OutcomeEscalated

		case domain.EventToolCall:
			toolCalls++
			if toolCalls > o.loopBudget {
				f := domain.NewFailure(domain.FailureLoopBudget,
					fmt.Sprintf("tool-invocation chain exceeded %d calls", o.loopBudget), nil)
				log.Error("loop budget exceeded", "error", f, "budget", o.loopBudget)
				return replyLoopBudget, OutcomeLoopBudget
			}

			result := o.executeTool(ctx, profile, convCtx, *ev.Invocation)
			if err := turn.SubmitToolResult(ctx, ev.Invocation.Name, result); err != nil {
				log.Error("submitting tool result failed", "error", err)
				return replyGeneric, OutcomeEngineError
			}

		default:
			log.Warn("ignoring unknown engine event", "kind", ev.Kind)
		}
	}
}

// executeTool runs one invocation under the per-call timeout. Whatever
// happens, a result payload comes back for the engine.
func (o *Orchestrator) executeTool(
	ctx context.Context,
	profile *Profile,
	convCtx domain.ConversationContext,
	inv domain.ToolInvocation,
) map[string]any {

	log := observability.LoggerFromContext(ctx).With("tool", inv.Name)

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	tctx := tools.ToolContext{
		App:       string(profile.App),
		UserID:    string(convCtx.Key.UserID),
		SessionID: string(convCtx.Key.SessionID),
	}

	start := time.Now()
	log.Info("tool call start")

	result, failure := profile.Registry.Dispatch(callCtx, tctx, inv)

	outcome := OutcomeOK
	if failure != nil {
		outcome = string(failure.Kind)
	}
	o.metrics.ObserveToolCall(inv.Name, outcome)

	log.Info("tool call end",
		"outcome", outcome,
		"elapsed_ms", time.Since(start).Milliseconds())

	return result
}
