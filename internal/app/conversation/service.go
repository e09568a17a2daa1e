package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osapicare/atende-agent/internal/app/agentflow"
	"github.com/osapicare/atende-agent/internal/domain"
	"github.com/osapicare/atende-agent/internal/observability"
)

// Service ties the session store, the agent profiles and the turn
// orchestrator together: one SendMessage call is one full turn.
type Service struct {
	store        domain.SessionStore
	orchestrator *agentflow.Orchestrator
	profiles     map[domain.AppName]*agentflow.Profile
	historyLimit int
	now          func() time.Time
}

func NewService(
	store domain.SessionStore,
	orchestrator *agentflow.Orchestrator,
	profiles map[domain.AppName]*agentflow.Profile,
	historyLimit int,
) *Service {
	if historyLimit <= 0 {
		historyLimit = 20
	}
	return &Service{
		store:        store,
		orchestrator: orchestrator,
		profiles:     profiles,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

func (s *Service) profileFor(app domain.AppName) (*agentflow.Profile, error) {
	p, ok := s.profiles[app]
	if !ok {
		return nil, fmt.Errorf("unknown application %q", app)
	}
	return p, nil
}

type EnsureSessionInput struct {
	App       domain.AppName
	UserID    domain.UserID
	SessionID domain.SessionID
}

// EnsureSession resolves (and lazily creates) the session for a key.
// Idempotent: ensuring an existing key returns it untouched.
func (s *Service) EnsureSession(ctx context.Context, in EnsureSessionInput) (*domain.Session, bool, error) {
	if _, err := s.profileFor(in.App); err != nil {
		return nil, false, err
	}
	if in.UserID == "" {
		return nil, false, fmt.Errorf("user id is required")
	}
	if in.SessionID == "" {
		in.SessionID = domain.SessionID("default-" + string(in.UserID))
	}

	key := domain.SessionKey{App: in.App, UserID: in.UserID, SessionID: in.SessionID}
	sess, created, err := s.store.Ensure(ctx, key)
	if err != nil {
		return nil, false, err
	}

	if created {
		observability.LoggerFromContext(ctx).Info("session created",
			"app", key.App, "user_id", key.UserID, "session_id", key.SessionID)
	}
	return sess, created, nil
}

type SendMessageInput struct {
	App       domain.AppName
	UserID    domain.UserID
	SessionID domain.SessionID
	Text      string
}

type SendMessageOutput struct {
	Session       *domain.Session
	UserTurn      *domain.Turn
	AssistantTurn *domain.Turn
	Outcome       string
}

// SendMessage runs one full turn: ensure the session, append the user
// turn, hand history plus the new message to the orchestrator and
// append whatever reply comes back. The transcript gains exactly one
// assistant turn per call, apologetic or not.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	profile, err := s.profileFor(in.App)
	if err != nil {
		return nil, err
	}

	sess, _, err := s.EnsureSession(ctx, EnsureSessionInput{
		App:       in.App,
		UserID:    in.UserID,
		SessionID: in.SessionID,
	})
	if err != nil {
		return nil, err
	}
	key := sess.Key

	ctx = observability.WithTurnID(ctx, uuid.NewString())
	log := observability.LoggerFromContext(ctx).With(
		"app", key.App, "session_id", key.SessionID, "user_id", key.UserID)
	log.Info("processing message", "len", len(in.Text))

	// History is captured before the new message so the engine sees it
	// exactly once, as the explicit user message of the turn.
	history, err := s.store.History(ctx, key, s.historyLimit)
	if err != nil {
		return nil, err
	}

	userTurn := &domain.Turn{
		ID:        domain.TurnID(uuid.NewString()),
		Role:      domain.RoleUser,
		Text:      in.Text,
		CreatedAt: s.now(),
	}
	if err := s.store.AppendTurn(ctx, key, userTurn); err != nil {
		log.Error("failed to append user turn", "error", err)
		return nil, err
	}

	convCtx := domain.ConversationContext{Key: key, History: history}
	reply, outcome := s.orchestrator.RunTurn(ctx, profile, convCtx, in.Text)

	assistantTurn := &domain.Turn{
		ID:        domain.TurnID(uuid.NewString()),
		Role:      domain.RoleAssistant,
		Text:      reply,
		CreatedAt: s.now(),
	}
	if err := s.store.AppendTurn(ctx, key, assistantTurn); err != nil {
		log.Error("failed to append assistant turn", "error", err)
		return nil, err
	}

	log.Info("message processed", "outcome", outcome)

	return &SendMessageOutput{
		Session:       sess,
		UserTurn:      userTurn,
		AssistantTurn: assistantTurn,
		Outcome:       outcome,
	}, nil
}

// Timeline returns the session and its last limit turns.
func (s *Service) Timeline(
	ctx context.Context,
	key domain.SessionKey,
	limit int,
) (*domain.Session, []*domain.Turn, error) {

	sess, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	turns, err := s.store.History(ctx, key, limit)
	if err != nil {
		return nil, nil, err
	}
	return sess, turns, nil
}
