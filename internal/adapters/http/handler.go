package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/osapicare/atende-agent/internal/app/conversation"
	"github.com/osapicare/atende-agent/internal/app/orders"
	"github.com/osapicare/atende-agent/internal/domain"
	"github.com/osapicare/atende-agent/internal/observability"
)

type Server struct {
	svc *conversation.Service
}

func NewServer(svc *conversation.Service) http.Handler {
	s := &Server{svc: svc}

	r := chi.NewRouter()
	r.Use(withLogging, withCORS)

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, req)
	})

	r.Post("/v1/sessions", s.handleEnsureSession)
	r.Get("/v1/sessions/{app}/{user}/{id}", s.handleGetSession)
	r.Post("/v1/sessions/{app}/{user}/{id}/messages", s.handleSendMessage)

	return r
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type ensureSessionRequest struct {
	App       string `json:"app"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id,omitempty"`
}

type sessionResponse struct {
	App       string    `json:"app"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ensureSessionResponse struct {
	Session sessionResponse `json:"session"`
	Created bool            `json:"created"`
}

type turnResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserTurn      turnResponse  `json:"user_turn"`
	AssistantTurn turnResponse  `json:"assistant_turn"`
	OrderDraft    *orders.Draft `json:"order_draft,omitempty"`
}

type getSessionResponse struct {
	Session sessionResponse `json:"session"`
	Turns   []turnResponse  `json:"turns"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEnsureSession(w http.ResponseWriter, r *http.Request) {
	var req ensureSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.UserID == "" {
		badRequest(w, "user_id is required")
		return
	}

	app, ok := parseApp(req.App)
	if !ok {
		badRequest(w, "app must be one of: notes, clinic, orders")
		return
	}

	sess, created, err := s.svc.EnsureSession(r.Context(), conversation.EnsureSessionInput{
		App:       app,
		UserID:    domain.UserID(req.UserID),
		SessionID: domain.SessionID(req.SessionID),
	})
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ensureSessionResponse{
		Session: toSessionResponse(sess),
		Created: created,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	key, ok := keyFromURL(r)
	if !ok {
		badRequest(w, "app must be one of: notes, clinic, orders")
		return
	}

	sess, turns, err := s.svc.Timeline(r.Context(), key, 0)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.NotFound(w, r)
			return
		}
		internalError(w, err)
		return
	}

	resp := getSessionResponse{
		Session: toSessionResponse(sess),
		Turns:   make([]turnResponse, 0, len(turns)),
	}
	for _, t := range turns {
		resp.Turns = append(resp.Turns, presentTurn(key.App, t))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	key, ok := keyFromURL(r)
	if !ok {
		badRequest(w, "app must be one of: notes, clinic, orders")
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	out, err := s.svc.SendMessage(r.Context(), conversation.SendMessageInput{
		App:       key.App,
		UserID:    key.UserID,
		SessionID: key.SessionID,
		Text:      req.Text,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	resp := sendMessageResponse{
		UserTurn:      presentTurn(key.App, out.UserTurn),
		AssistantTurn: presentTurn(key.App, out.AssistantTurn),
	}
	if key.App == domain.AppOrders {
		if draft, ok := orders.ExtractDraft(out.AssistantTurn.Text); ok {
			resp.OrderDraft = &draft
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// ─────────────────────────────────────────────
// Conversion helpers
// ─────────────────────────────────────────────

func parseApp(s string) (domain.AppName, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "notes":
		return domain.AppNotes, true
	case "clinic":
		return domain.AppClinic, true
	case "orders":
		return domain.AppOrders, true
	default:
		return "", false
	}
}

func keyFromURL(r *http.Request) (domain.SessionKey, bool) {
	app, ok := parseApp(chi.URLParam(r, "app"))
	if !ok {
		return domain.SessionKey{}, false
	}
	return domain.SessionKey{
		App:       app,
		UserID:    domain.UserID(chi.URLParam(r, "user")),
		SessionID: domain.SessionID(chi.URLParam(r, "id")),
	}, true
}

func toSessionResponse(s *domain.Session) sessionResponse {
	return sessionResponse{
		App:       string(s.Key.App),
		UserID:    string(s.Key.UserID),
		SessionID: string(s.Key.SessionID),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// presentTurn renders a transcript turn. For the orders app the
// structured JSON block is a side-channel, stripped from the visible
// assistant text.
func presentTurn(app domain.AppName, t *domain.Turn) turnResponse {
	text := t.Text
	if app == domain.AppOrders && t.Role == domain.RoleAssistant {
		text = orders.StripDraft(text)
	}
	return turnResponse{
		ID:        string(t.ID),
		Role:      string(t.Role),
		Text:      text,
		CreatedAt: t.CreatedAt,
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	observability.Logger().Error("internal error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}
