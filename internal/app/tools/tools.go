package tools

import (
	"context"
	"strconv"

	"github.com/osapicare/atende-agent/internal/domain"
)

// ToolContext brings metadata of the call to the tool.
type ToolContext struct {
	App       string
	UserID    string
	SessionID string
	RequestID string
}

// Tool represents an operation the reasoning engine can invoke.
// Call returns an error only for validation failures raised before any
// network I/O; transport, remote-rejection and malformed-response
// errors are translated into a uniform failure payload so the engine
// can phrase a graceful reply.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Internal() bool
	Call(ctx context.Context, tctx ToolContext, args map[string]any) (map[string]any, error)
}

// FailureResult is the uniform payload fed back to the engine when a
// tool cannot complete.
func FailureResult(kind domain.FailureKind, detail string) map[string]any {
	return map[string]any{
		"error":  "operation unavailable",
		"kind":   string(kind),
		"detail": detail,
	}
}

// failureFromErr keeps the Failure kind when err carries one.
func failureFromErr(err error) map[string]any {
	return FailureResult(domain.KindOf(err), err.Error())
}

// --- argument helpers --- //

func getString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// getInt accepts float64 (JSON numbers), int and numeric strings, since
// engine-supplied arguments arrive untyped.
func getInt(m map[string]any, key string) (int, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func requireString(m map[string]any, key string) (string, error) {
	s := getString(m, key)
	if s == "" {
		return "", domain.Validationf("argumento obrigatório ausente: %s", key)
	}
	return s, nil
}

func requireInt(m map[string]any, key string) (int, error) {
	n, ok := getInt(m, key)
	if !ok {
		return 0, domain.Validationf("argumento obrigatório ausente ou inválido: %s", key)
	}
	return n, nil
}

// objectSchema builds the JSON-schema map the registry exposes to the
// engine for a tool's parameters.
func objectSchema(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		req := make([]any, 0, len(required))
		for _, r := range required {
			req = append(req, r)
		}
		schema["required"] = req
	}
	return schema
}

func stringProp(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func intProp(desc string) map[string]any {
	return map[string]any{"type": "integer", "description": desc}
}
