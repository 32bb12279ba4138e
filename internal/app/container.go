// Package app wires application services with infrastructure adapters.
package app

import (
	"context"
	"fmt"

	"github.com/doeshing/voco/internal/application/doctor"
	"github.com/doeshing/voco/internal/application/session"
	"github.com/doeshing/voco/internal/infrastructure/ai"
	"github.com/doeshing/voco/internal/infrastructure/config"
	"github.com/doeshing/voco/internal/infrastructure/executor"
	"github.com/doeshing/voco/internal/infrastructure/history"
	"github.com/doeshing/voco/internal/infrastructure/notify"
	"github.com/doeshing/voco/internal/infrastructure/profile"
	"github.com/doeshing/voco/internal/infrastructure/security"
	"github.com/doeshing/voco/internal/infrastructure/speech"
	"github.com/doeshing/voco/internal/pkg/logger"
	"github.com/doeshing/voco/internal/ports"
)

// Container holds the assembled dependency graph.
type Container struct {
	SessionService *session.Service
	DoctorService  *doctor.Service
	ConfigLoader   *config.FileLoader
	Guardrail      *security.Guardrail
	HistoryStore   *history.SQLiteStore
	Logger         ports.Logger
}

// BuildContainer constructs the dependency graph from the loaded
// configuration.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New(verbose)
	detector := profile.NewDetector()

	factory := ai.NewFactory()
	conversationModel, ok := cfg.ConversationModel()
	if !ok {
		return nil, fmt.Errorf("conversation model %q not configured", cfg.Preferences.ConversationModel)
	}
	commandModel, ok := cfg.CommandModel()
	if !ok {
		return nil, fmt.Errorf("command model %q not configured", cfg.Preferences.CommandModel)
	}
	conversationProvider, err := factory.ForModel(conversationModel)
	if err != nil {
		return nil, err
	}
	commandProvider, err := factory.ForModel(commandModel)
	if err != nil {
		return nil, err
	}

	var guardrail *security.Guardrail
	if cfg.Security.Enabled {
		guardrail, err = security.NewGuardrail(cfg.Security.RulesFile)
		if err != nil {
			log.Warn("guardrail rules invalid, using embedded defaults", map[string]interface{}{"error": err.Error()})
			guardrail, err = security.NewDefaultGuardrail()
			if err != nil {
				return nil, err
			}
		}
	}

	var historyStore *history.SQLiteStore
	if cfg.History.Enabled {
		historyStore, err = history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			log.Warn("history store unavailable", map[string]interface{}{"error": err.Error()})
			historyStore = nil
		}
	}

	sessionService := &session.Service{
		ConfigProvider: cfgLoader,
		Profile:        detector,
		Transcriber:    &speech.ExecTranscriber{Argv: cfg.Voice.TranscribeCommand, Logger: log},
		Speaker:        &speech.ExecSpeaker{Argv: cfg.Voice.SpeakCommand},
		Classifier:     &ai.Classifier{Provider: conversationProvider},
		Responder:      &ai.Responder{Provider: conversationProvider},
		Synthesizer:    &ai.Synthesizer{Command: commandProvider, Summary: conversationProvider, Logger: log},
		Executor:       executor.NewLocal(cfg.Execution.Shell, cfg.ExecTimeout(), cfg.OutputCap()),
		Logger:         log,
	}
	if len(cfg.Voice.NotifyCommand) > 0 {
		sessionService.Notifier = &notify.ExecNotifier{Argv: cfg.Voice.NotifyCommand, Logger: log}
	}
	if guardrail != nil {
		sessionService.Security = guardrail
	}
	if historyStore != nil {
		sessionService.History = historyStore
	}

	doctorService := &doctor.Service{
		ConfigProvider:  cfgLoader,
		ProfileDetector: detector,
	}
	if guardrail != nil {
		doctorService.SecurityService = guardrail
	}

	return &Container{
		SessionService: sessionService,
		DoctorService:  doctorService,
		ConfigLoader:   cfgLoader,
		Guardrail:      guardrail,
		HistoryStore:   historyStore,
		Logger:         log,
	}, nil
}

// Close releases container-held resources.
func (c *Container) Close() {
	if c.HistoryStore != nil {
		c.HistoryStore.Close()
	}
}
