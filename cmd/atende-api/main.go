package main

import (
	"context"
	"net/http"
	"os"

	"github.com/osapicare/atende-agent/internal/adapters/clinic"
	httpadapter "github.com/osapicare/atende-agent/internal/adapters/http"
	"github.com/osapicare/atende-agent/internal/adapters/llm"
	"github.com/osapicare/atende-agent/internal/adapters/notes"
	memstore "github.com/osapicare/atende-agent/internal/adapters/storage/memory"
	"github.com/osapicare/atende-agent/internal/app/agentflow"
	"github.com/osapicare/atende-agent/internal/app/conversation"
	"github.com/osapicare/atende-agent/internal/app/tools"
	"github.com/osapicare/atende-agent/internal/config"
	"github.com/osapicare/atende-agent/internal/domain"
	"github.com/osapicare/atende-agent/internal/observability"
)

func main() {
	ctx := context.Background()
	log := observability.Logger()

	cfg := config.Load()

	var (
		engine domain.ReasoningEngine
		err    error
	)
	if cfg.UseMockLLM {
		log.Info("using scripted reasoning engine")
		engine = llm.NewScriptedEngine()
	} else {
		log.Info("using Gemini reasoning engine", "model", cfg.ModelName)
		engine, err = llm.NewGeminiEngine(ctx, cfg.GeminiAPIKey, cfg.ModelName)
		if err != nil {
			log.Error("initializing Gemini engine", "error", err)
			os.Exit(1)
		}
	}

	// Remote platforms.
	notesClient := notes.NewClient(cfg.NotesBaseURL, cfg.CallTimeout)
	broker := clinic.NewLoginBroker(cfg.ClinicBaseURL, cfg.ClinicEmail, cfg.ClinicSenha, cfg.LoginTimeout)
	clinicClient := clinic.NewClient(cfg.ClinicBaseURL, broker, cfg.CallTimeout)

	// Agent profiles: one persona + tool registry per application.
	profiles := map[domain.AppName]*agentflow.Profile{
		domain.AppNotes: {
			App:      domain.AppNotes,
			Persona:  llm.PersonaFor(domain.AppNotes),
			Registry: tools.NewRegistry(tools.NotesToolset(notesClient)...),
		},
		domain.AppClinic: {
			App:      domain.AppClinic,
			Persona:  llm.PersonaFor(domain.AppClinic),
			Registry: tools.NewRegistry(tools.ClinicToolset(clinicClient, cfg.PortalLink)...),
		},
		domain.AppOrders: {
			App:      domain.AppOrders,
			Persona:  llm.PersonaFor(domain.AppOrders),
			Registry: tools.NewRegistry(),
		},
	}

	metrics := observability.NewMetrics("atende")
	orchestrator := agentflow.New(engine, cfg.LoopBudget, cfg.CallTimeout, metrics)

	sessionStore := memstore.NewSessionStore()
	svc := conversation.NewService(sessionStore, orchestrator, profiles, cfg.HistoryLimit)

	handler := httpadapter.NewServer(svc)

	addr := ":" + cfg.Port
	log.Info("atende API listening", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
