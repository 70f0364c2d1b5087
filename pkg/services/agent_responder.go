package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
	"github.com/Looping69/AI-Agentic-Medical/pkg/logger"
)

type AgentRepository interface {
	ListActive(ctx context.Context) ([]domain.Agent, error)
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
}

type ModelRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Model, error)
}

type KnowledgeRepository interface {
	ListByAgent(ctx context.Context, agentID string) ([]domain.KnowledgeItem, error)
}

type CompletionClient interface {
	GenerateWithSystemPrompt(ctx context.Context, systemPrompt, userPrompt, model string) (string, error)
}

// maxKnowledgeItems caps how much knowledge-base text is injected into a
// single system prompt.
const maxKnowledgeItems = 5

type agentResponder struct {
	agents    AgentRepository
	models    ModelRepository
	knowledge KnowledgeRepository
	llm       CompletionClient
}

func NewAgentResponder(
	agents AgentRepository,
	models ModelRepository,
	knowledge KnowledgeRepository,
	llm CompletionClient,
) *agentResponder {
	return &agentResponder{
		agents:    agents,
		models:    models,
		knowledge: knowledge,
		llm:       llm,
	}
}

// Generate produces one agent's response to the user message. Failures stay
// typed: *domain.GenerationError with a config kind for unresolved agent or
// model, a provider kind for completion failures. Callers decide whether to
// render the fallback text.
func (a *agentResponder) Generate(ctx context.Context, agentID, userMessage string, history []domain.HistoryEntry) (string, error) {
	agent, err := a.agents.GetByID(ctx, agentID)
	if err != nil {
		return "", domain.NewConfigError(fmt.Errorf("resolving agent %s: %w", agentID, err))
	}

	model, err := a.models.GetByID(ctx, agent.ModelID)
	if err != nil {
		return "", domain.NewConfigError(fmt.Errorf("resolving model for agent %s: %w", agent.Name, err))
	}

	systemPrompt := agent.SystemPrompt + a.knowledgeBlock(ctx, agentID)
	userPrompt := userMessage + historyBlock(history)

	slog.DebugContext(ctx, "Generating agent response",
		"agent", agent.Name,
		"model", model.ProviderID,
		"historyLen", len(history),
	)

	response, err := a.llm.GenerateWithSystemPrompt(ctx, systemPrompt, userPrompt, model.ProviderID)
	if err != nil {
		return "", domain.NewProviderError(fmt.Errorf("agent %s: %w", agent.Name, err))
	}

	return response, nil
}

// knowledgeBlock renders the agent's knowledge-base items as a labeled
// context block. A lookup failure degrades to an empty block; knowledge is
// enrichment, not a prerequisite.
func (a *agentResponder) knowledgeBlock(ctx context.Context, agentID string) string {
	items, err := a.knowledge.ListByAgent(ctx, agentID)
	if err != nil {
		slog.WarnContext(ctx, "Fetching knowledge base failed, continuing without it", "agentID", agentID, logger.Err(err))
		return ""
	}
	if len(items) == 0 {
		return ""
	}
	if len(items) > maxKnowledgeItems {
		items = items[:maxKnowledgeItems]
	}

	blocks := lo.Map(items, func(item domain.KnowledgeItem, _ int) string {
		return fmt.Sprintf("%s:\n%s", item.Title, item.Content)
	})

	return "\n\nRelevant knowledge base information:\n" + strings.Join(blocks, "\n\n")
}

// historyBlock serializes the conversation history, most recent last, as a
// labeled text block appended to the user turn.
func historyBlock(history []domain.HistoryEntry) string {
	if len(history) == 0 {
		return ""
	}

	lines := lo.Map(history, func(entry domain.HistoryEntry, _ int) string {
		return fmt.Sprintf("%s: %s", entry.Role, entry.Content)
	})

	return "\n\nConversation history:\n" + strings.Join(lines, "\n")
}
