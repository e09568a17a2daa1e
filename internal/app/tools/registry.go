package tools

import (
	"context"
	"errors"

	"github.com/osapicare/atende-agent/internal/domain"
	"github.com/osapicare/atende-agent/internal/observability"
)

// Registry is the static mapping from tool name to handler, built once
// at startup and exposed to the reasoning engine as declarations.
// Dispatch never panics and never returns a raw error to the caller:
// every outcome is a result payload plus an optional Failure for
// logging and metrics.
type Registry struct {
	order []string
	tools map[string]Tool
}

func NewRegistry(ts ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(ts))}
	for _, t := range ts {
		if _, dup := r.tools[t.Name()]; dup {
			continue
		}
		r.order = append(r.order, t.Name())
		r.tools[t.Name()] = t
	}
	return r
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

func (r *Registry) Len() int { return len(r.order) }

// Declarations lists the tools in registration order for the engine.
func (r *Registry) Declarations() []domain.ToolDeclaration {
	decls := make([]domain.ToolDeclaration, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		decls = append(decls, domain.ToolDeclaration{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
			Internal:    t.Internal(),
		})
	}
	return decls
}

// Dispatch runs one tool invocation. Unknown tools and validation
// errors become failure payloads; the returned Failure is nil on
// success.
func (r *Registry) Dispatch(
	ctx context.Context,
	tctx ToolContext,
	inv domain.ToolInvocation,
) (map[string]any, *domain.Failure) {

	log := observability.LoggerFromContext(ctx).With("tool", inv.Name)

	t, ok := r.tools[inv.Name]
	if !ok {
		f := domain.Validationf("ferramenta desconhecida: %s", inv.Name)
		log.Warn("unknown tool requested")
		return FailureResult(f.Kind, f.Detail), f
	}

	result, err := t.Call(ctx, tctx, inv.Args)
	if err != nil {
		var f *domain.Failure
		if !errors.As(err, &f) {
			f = domain.NewFailure(domain.FailureValidation, "invalid tool arguments", err)
		}
		log.Warn("tool call rejected", "error", err)
		return FailureResult(f.Kind, f.Detail), f
	}

	return result, nil
}
