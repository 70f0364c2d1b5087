package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
)

type OrchestratorConfigRepository interface {
	GetActive(ctx context.Context) (*domain.OrchestratorConfig, error)
}

type orchestratorService struct {
	configs OrchestratorConfigRepository
	models  ModelRepository
	llm     CompletionClient
}

func NewOrchestratorService(
	configs OrchestratorConfigRepository,
	models ModelRepository,
	llm CompletionClient,
) *orchestratorService {
	return &orchestratorService{
		configs: configs,
		models:  models,
		llm:     llm,
	}
}

// Synthesize merges multiple agents' responses to one user turn into a
// single answer. The turn sequencer short-circuits single-response turns
// before calling this.
func (o *orchestratorService) Synthesize(ctx context.Context, userMessage string, responses []domain.AgentResponse, history []domain.HistoryEntry) (string, error) {
	if len(responses) < 2 {
		return "", domain.NewConfigError(fmt.Errorf("synthesis requires at least two responses, got %d", len(responses)))
	}

	cfg, err := o.configs.GetActive(ctx)
	if err != nil {
		return "", domain.NewConfigError(fmt.Errorf("resolving orchestrator config: %w", err))
	}

	model, err := o.models.GetByID(ctx, cfg.ModelID)
	if err != nil {
		return "", domain.NewConfigError(fmt.Errorf("resolving orchestrator model: %w", err))
	}

	responsesBlock := strings.Join(lo.Map(responses, func(r domain.AgentResponse, _ int) string {
		return fmt.Sprintf("%s (%s): %s", r.AgentName, r.AgentID, r.Response)
	}), "\n\n")

	userPrompt := fmt.Sprintf(
		"User query: %s\n\nAgent responses:\n%s%s\n\nPlease synthesize these responses into a coherent, comprehensive answer that addresses the user's query.",
		userMessage,
		responsesBlock,
		historyBlock(history),
	)

	slog.DebugContext(ctx, "Synthesizing orchestrator response",
		"orchestrator", cfg.Name,
		"model", model.ProviderID,
		"responses", len(responses),
	)

	response, err := o.llm.GenerateWithSystemPrompt(ctx, cfg.SystemPrompt, userPrompt, model.ProviderID)
	if err != nil {
		return "", domain.NewProviderError(fmt.Errorf("orchestrator %s: %w", cfg.Name, err))
	}

	return response, nil
}
