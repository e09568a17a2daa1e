package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/osapicare/atende-agent/internal/domain"
)

func TestScriptedEngineReplaysScript(t *testing.T) {
	engine := NewScriptedEngine(
		domain.EngineEvent{Kind: domain.EventText, Text: "a pensar..."},
		domain.EngineEvent{Kind: domain.EventFinal, Text: "pronto"},
	)

	turn, err := engine.BeginTurn(context.Background(), domain.TurnRequest{UserMessage: "oi"})
	require.NoError(t, err)

	ev, err := turn.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.EventText, ev.Kind)

	ev, err = turn.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.EventFinal, ev.Kind)
	assert.Equal(t, "pronto", ev.Text)

	_, err = turn.Next(context.Background())
	assert.Error(t, err, "a finished turn yields no more events")
}

func TestScriptedEngineEchoWithoutScript(t *testing.T) {
	engine := NewScriptedEngine()
	turn, err := engine.BeginTurn(context.Background(), domain.TurnRequest{UserMessage: "bom dia"})
	require.NoError(t, err)

	ev, err := turn.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.EventFinal, ev.Kind)
	assert.Contains(t, ev.Text, `"bom dia"`)
}

func TestScriptedEngineEscalatesWhenExhausted(t *testing.T) {
	engine := NewScriptedEngine(domain.EngineEvent{
		Kind:       domain.EventToolCall,
		Invocation: &domain.ToolInvocation{Name: "list_notes"},
	})

	turn, err := engine.BeginTurn(context.Background(), domain.TurnRequest{UserMessage: "liste"})
	require.NoError(t, err)

	ev, err := turn.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.EventToolCall, ev.Kind)

	ev, err = turn.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.EventEscalation, ev.Kind)
}

func TestScriptedEngineRecordsSubmittedResults(t *testing.T) {
	engine := NewScriptedEngine(domain.EngineEvent{
		Kind:       domain.EventToolCall,
		Invocation: &domain.ToolInvocation{Name: "list_notes"},
	})

	turn, err := engine.BeginTurn(context.Background(), domain.TurnRequest{})
	require.NoError(t, err)
	_, err = turn.Next(context.Background())
	require.NoError(t, err)

	require.NoError(t, turn.SubmitToolResult(context.Background(), "list_notes", map[string]any{"count": 0}))

	submitted := engine.Submitted()
	require.Len(t, submitted, 1)
	assert.Equal(t, "list_notes", submitted[0].Name)
	assert.Equal(t, map[string]any{"count": 0}, submitted[0].Result)
}

func TestPersonaForKnownApps(t *testing.T) {
	for _, app := range []domain.AppName{domain.AppNotes, domain.AppClinic, domain.AppOrders} {
		assert.NotEmpty(t, PersonaFor(app), "app %s needs a persona", app)
	}
}

func TestToGeminiToolsConversion(t *testing.T) {
	decls := []domain.ToolDeclaration{{
		Name:        "create_note",
		Description: "Cria uma nota.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"titulo":  map[string]any{"type": "string", "description": "Título da nota."},
				"id_sexo": map[string]any{"type": "integer", "description": "1 ou 2."},
			},
			"required": []any{"titulo"},
		},
	}}

	gtools := toGeminiTools(decls)
	require.Len(t, gtools, 1)
	require.Len(t, gtools[0].FunctionDeclarations, 1)

	fd := gtools[0].FunctionDeclarations[0]
	assert.Equal(t, "create_note", fd.Name)
	require.NotNil(t, fd.Parameters)
	assert.Equal(t, genai.TypeObject, fd.Parameters.Type)
	assert.Equal(t, []string{"titulo"}, fd.Parameters.Required)

	titulo := fd.Parameters.Properties["titulo"]
	require.NotNil(t, titulo)
	assert.Equal(t, genai.TypeString, titulo.Type)
	assert.Equal(t, "Título da nota.", titulo.Description)

	sexo := fd.Parameters.Properties["id_sexo"]
	require.NotNil(t, sexo)
	assert.Equal(t, genai.TypeInteger, sexo.Type)
}

func TestToGeminiToolsEmpty(t *testing.T) {
	assert.Nil(t, toGeminiTools(nil))
}
