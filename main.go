package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v9"

	"github.com/Looping69/AI-Agentic-Medical/pkg/api"
	"github.com/Looping69/AI-Agentic-Medical/pkg/auth"
	"github.com/Looping69/AI-Agentic-Medical/pkg/database"
	"github.com/Looping69/AI-Agentic-Medical/pkg/gpt"
	"github.com/Looping69/AI-Agentic-Medical/pkg/logger"
	"github.com/Looping69/AI-Agentic-Medical/pkg/repository"
	"github.com/Looping69/AI-Agentic-Medical/pkg/services"
	"github.com/Looping69/AI-Agentic-Medical/pkg/workers"
)

type Config struct {
	OpenAIToken   string   `env:"OPEN_AI_TOKEN,required"`
	OpenAIBaseURL string   `env:"OPEN_AI_BASE_URL"`
	DatabaseURL   string   `env:"DATABASE_URL,required"`
	HTTPAddr      string   `env:"HTTP_ADDR" envDefault:":8080"`
	APITokens     []string `env:"API_TOKENS" envSeparator:" "`
	AuthDisabled  bool     `env:"AUTH_DISABLED" envDefault:"false"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	workerGroup, err := setupWorkers()
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return workerGroup.Start(ctx)
}

func setupWorkers() (workers.Group, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	if cfg.AuthDisabled {
		slog.Warn("Authentication is disabled; every request gets the admin role")
	}
	authenticator := auth.NewAuthenticator(cfg.APITokens, cfg.AuthDisabled)

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating db: %w", err)
	}

	llmClient, err := gpt.NewClient(cfg.OpenAIToken, cfg.OpenAIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating completion client: %w", err)
	}

	conversationsRepository := repository.NewConversationsRepository(db)
	messagesRepository := repository.NewMessagesRepository(db)
	agentsRepository := repository.NewAgentsRepository(db)
	modelsRepository := repository.NewModelsRepository(db)
	knowledgeRepository := repository.NewKnowledgeRepository(db)
	orchestratorRepository := repository.NewOrchestratorRepository(db)
	patientsRepository := repository.NewPatientsRepository(db)
	consultationsRepository := repository.NewConsultationsRepository(db)

	agentResponder := services.NewAgentResponder(
		agentsRepository,
		modelsRepository,
		knowledgeRepository,
		llmClient,
	)

	orchestratorService := services.NewOrchestratorService(
		orchestratorRepository,
		modelsRepository,
		llmClient,
	)

	consultationService := services.NewConsultationService(
		conversationsRepository,
		messagesRepository,
		patientsRepository,
		consultationsRepository,
		agentsRepository,
		agentResponder,
		orchestratorService,
	)

	router := api.NewRouter(authenticator, api.Handlers{
		Consultations: api.NewConsultationHandler(consultationService, consultationsRepository),
		Conversations: api.NewConversationHandler(conversationsRepository, messagesRepository, consultationService, agentsRepository),
		Patients:      api.NewPatientHandler(patientsRepository),
		Agents:        api.NewAgentHandler(agentsRepository, modelsRepository, knowledgeRepository),
	})

	var workerGroup workers.Group

	worker, err := workers.NewHTTPServer(cfg.HTTPAddr, router)
	if err != nil {
		return nil, fmt.Errorf("creating http server: %w", err)
	}
	workerGroup = append(workerGroup, worker)

	return workerGroup, nil
}
