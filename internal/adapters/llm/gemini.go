package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/osapicare/atende-agent/internal/domain"
)

// GeminiEngine implements domain.ReasoningEngine over the Gemini API.
// Each turn is driven lazily: Next issues a model call only when every
// tool call of the previous round has a submitted result.
type GeminiEngine struct {
	client *genai.Client
	model  string
}

func NewGeminiEngine(ctx context.Context, apiKey, model string) (*GeminiEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiEngine{client: client, model: model}, nil
}

func (e *GeminiEngine) BeginTurn(ctx context.Context, req domain.TurnRequest) (domain.EngineTurn, error) {
	var contents []*genai.Content
	for _, turn := range req.Context.History {
		var role genai.Role = genai.RoleUser
		if turn.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(req.UserMessage, genai.RoleUser))

	temp := float32(0.7)
	topP := float32(0.9)
	outputTokens := int32(8192)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.Persona, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   outputTokens,
		Tools:             toGeminiTools(req.Tools),
	}

	return &geminiTurn{
		engine:   e,
		cfg:      cfg,
		contents: contents,
	}, nil
}

// geminiTurn holds the state of one open turn: the growing content
// list, events parsed from the last model round but not yet delivered,
// and function responses buffered until the next round.
type geminiTurn struct {
	engine *GeminiEngine
	cfg    *genai.GenerateContentConfig

	contents  []*genai.Content
	queue     []domain.EngineEvent
	responses []*genai.Part
	pending   int // tool calls still awaiting SubmitToolResult
	done      bool
}

func (t *geminiTurn) Next(ctx context.Context) (domain.EngineEvent, error) {
	if len(t.queue) > 0 {
		ev := t.queue[0]
		t.queue = t.queue[1:]
		return ev, nil
	}
	if t.done {
		return domain.EngineEvent{}, fmt.Errorf("gemini: turn already finished")
	}
	if t.pending > 0 {
		return domain.EngineEvent{}, fmt.Errorf("gemini: %d tool result(s) still pending", t.pending)
	}

	// Flush buffered tool results into the conversation before the
	// next model round.
	if len(t.responses) > 0 {
		t.contents = append(t.contents, &genai.Content{
			Role:  genai.RoleUser,
			Parts: t.responses,
		})
		t.responses = nil
	}

	res, err := t.engine.client.Models.GenerateContent(ctx, t.engine.model, t.contents, t.cfg)
	if err != nil {
		return domain.EngineEvent{}, fmt.Errorf("gemini generate content: %w", err)
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		t.done = true
		return domain.EngineEvent{
			Kind:   domain.EventEscalation,
			Reason: "o modelo não produziu nenhuma resposta",
		}, nil
	}

	content := res.Candidates[0].Content
	t.contents = append(t.contents, content)

	var textParts []string
	calls := 0
	for _, part := range content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" {
			textParts = append(textParts, part.Text)
		}
		if part.FunctionCall != nil {
			args := part.FunctionCall.Args
			if args == nil {
				args = map[string]any{}
			}
			t.queue = append(t.queue, domain.EngineEvent{
				Kind: domain.EventToolCall,
				Invocation: &domain.ToolInvocation{
					Name: part.FunctionCall.Name,
					Args: args,
				},
			})
			calls++
		}
	}
	text := strings.Join(textParts, "")

	if calls == 0 {
		t.done = true
		if strings.TrimSpace(text) == "" {
			return domain.EngineEvent{
				Kind:   domain.EventEscalation,
				Reason: "o modelo devolveu um texto vazio",
			}, nil
		}
		return domain.EngineEvent{Kind: domain.EventFinal, Text: text}, nil
	}

	t.pending += calls

	// Text alongside function calls is a mid-turn partial, delivered
	// ahead of the queued tool events.
	if text != "" {
		t.queue = append([]domain.EngineEvent{{Kind: domain.EventText, Text: text}}, t.queue...)
	}

	ev := t.queue[0]
	t.queue = t.queue[1:]
	return ev, nil
}

func (t *geminiTurn) SubmitToolResult(_ context.Context, name string, result map[string]any) error {
	if t.pending == 0 {
		return fmt.Errorf("gemini: no tool call awaiting a result")
	}
	t.responses = append(t.responses, &genai.Part{
		FunctionResponse: &genai.FunctionResponse{
			Name:     name,
			Response: result,
		},
	})
	t.pending--
	return nil
}
