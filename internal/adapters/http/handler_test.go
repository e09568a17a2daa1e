package httpadapter

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osapicare/atende-agent/internal/adapters/llm"
	"github.com/osapicare/atende-agent/internal/adapters/storage/memory"
	"github.com/osapicare/atende-agent/internal/app/agentflow"
	"github.com/osapicare/atende-agent/internal/app/conversation"
	"github.com/osapicare/atende-agent/internal/app/tools"
	"github.com/osapicare/atende-agent/internal/domain"
)

func newTestServer(engine domain.ReasoningEngine) http.Handler {
	orch := agentflow.New(engine, 10, time.Second, nil)
	profiles := map[domain.AppName]*agentflow.Profile{}
	for _, app := range []domain.AppName{domain.AppNotes, domain.AppClinic, domain.AppOrders} {
		profiles[app] = &agentflow.Profile{
			App:      app,
			Persona:  "persona de teste",
			Registry: tools.NewRegistry(),
		}
	}
	svc := conversation.NewService(memory.NewSessionStore(), orch, profiles, 20)
	return NewServer(svc)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	h := newTestServer(llm.NewScriptedEngine())

	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestEnsureSessionEndpoint(t *testing.T) {
	h := newTestServer(llm.NewScriptedEngine())

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions", map[string]string{
		"app":     "notes",
		"user_id": "ana",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	out := decode(t, rec)
	assert.Equal(t, true, out["created"])
	sess := out["session"].(map[string]any)
	assert.Equal(t, "notes", sess["app"])
	assert.Equal(t, "ana", sess["user_id"])
	assert.Equal(t, "default-ana", sess["session_id"])

	// ensuring again reuses the session
	rec = doJSON(t, h, http.MethodPost, "/v1/sessions", map[string]string{
		"app":     "notes",
		"user_id": "ana",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, false, decode(t, rec)["created"])
}

func TestEnsureSessionValidation(t *testing.T) {
	h := newTestServer(llm.NewScriptedEngine())

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions", map[string]string{"app": "notes"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/v1/sessions", map[string]string{
		"app":     "padaria",
		"user_id": "ana",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "app must be one of")
}

func TestSendMessageEndpoint(t *testing.T) {
	engine := llm.NewScriptedEngine(domain.EngineEvent{
		Kind: domain.EventFinal,
		Text: "Claro! Nota criada.",
	})
	h := newTestServer(engine)

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions/notes/ana/s1/messages", map[string]string{
		"text": "crie uma nota",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode(t, rec)
	user := out["user_turn"].(map[string]any)
	assistant := out["assistant_turn"].(map[string]any)
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "crie uma nota", user["text"])
	assert.Equal(t, "assistant", assistant["role"])
	assert.Equal(t, "Claro! Nota criada.", assistant["text"])
	assert.NotContains(t, out, "order_draft")
}

func TestSendMessageValidation(t *testing.T) {
	h := newTestServer(llm.NewScriptedEngine())

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions/notes/ana/s1/messages", map[string]string{
		"text": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/v1/sessions/oficina/ana/s1/messages", map[string]string{
		"text": "olá",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessageOrdersDraftSideChannel(t *testing.T) {
	reply := "Anotei o seu pedido!\n\n```json\n" +
		`{"name": "João", "service": "banner", "quantity": 1, "description": "banner 2x1m", "confirmed": false}` +
		"\n```"
	engine := llm.NewScriptedEngine(domain.EngineEvent{Kind: domain.EventFinal, Text: reply})
	h := newTestServer(engine)

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions/orders/rui/s1/messages", map[string]string{
		"text": "quero um banner",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode(t, rec)
	assistant := out["assistant_turn"].(map[string]any)
	assert.Equal(t, "Anotei o seu pedido!", assistant["text"],
		"the JSON side-channel must not reach the visible text")

	draft := out["order_draft"].(map[string]any)
	assert.Equal(t, "João", draft["name"])
	assert.Equal(t, "banner", draft["service"])
	assert.Equal(t, "1", draft["quantity"])
	assert.Equal(t, "nao", draft["confirmed"])
}

func TestGetSessionEndpoint(t *testing.T) {
	engine := llm.NewScriptedEngine(domain.EngineEvent{Kind: domain.EventFinal, Text: "Olá, Ana!"})
	h := newTestServer(engine)

	doJSON(t, h, http.MethodPost, "/v1/sessions/notes/ana/s1/messages", map[string]string{"text": "olá"})

	rec := doJSON(t, h, http.MethodGet, "/v1/sessions/notes/ana/s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode(t, rec)
	turns := out["turns"].([]any)
	require.Len(t, turns, 2)
	first := turns[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
}

func TestGetSessionNotFound(t *testing.T) {
	h := newTestServer(llm.NewScriptedEngine())

	rec := doJSON(t, h, http.MethodGet, "/v1/sessions/notes/ghost/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(llm.NewScriptedEngine())

	req := httptest.NewRequest(http.MethodOptions, "/v1/sessions", nil)
	req.Header.Set("Origin", "https://chat.osapicare.ao")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
