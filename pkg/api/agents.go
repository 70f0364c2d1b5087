package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
)

type AgentRepository interface {
	ListActive(ctx context.Context) ([]domain.Agent, error)
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
}

type ModelRepository interface {
	ListActive(ctx context.Context) ([]domain.Model, error)
}

type KnowledgeRepository interface {
	ListByAgent(ctx context.Context, agentID string) ([]domain.KnowledgeItem, error)
}

type agentHandler struct {
	agents    AgentRepository
	models    ModelRepository
	knowledge KnowledgeRepository
}

func NewAgentHandler(agents AgentRepository, models ModelRepository, knowledge KnowledgeRepository) *agentHandler {
	return &agentHandler{agents: agents, models: models, knowledge: knowledge}
}

type agentResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Specialty   string `json:"specialty"`
	IconName    string `json:"iconName"`
	ModelID     string `json:"modelId"`
	IsPremium   bool   `json:"isPremium"`
}

func toAgentResponse(agent *domain.Agent) agentResponse {
	// The system prompt stays server-side.
	return agentResponse{
		ID:          agent.ID,
		Name:        agent.Name,
		Description: agent.Description,
		Specialty:   agent.Specialty,
		IconName:    agent.IconName,
		ModelID:     agent.ModelID,
		IsPremium:   agent.IsPremium,
	}
}

func (h *agentHandler) List(c *gin.Context) {
	agents, err := h.agents.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]agentResponse, 0, len(agents))
	for i := range agents {
		out = append(out, toAgentResponse(&agents[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *agentHandler) Get(c *gin.Context) {
	agent, err := h.agents.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toAgentResponse(agent))
}

func (h *agentHandler) Knowledge(c *gin.Context) {
	items, err := h.knowledge.ListByAgent(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	type knowledgeResponse struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	out := make([]knowledgeResponse, 0, len(items))
	for _, item := range items {
		out = append(out, knowledgeResponse{ID: item.ID, Title: item.Title})
	}
	c.JSON(http.StatusOK, out)
}

func (h *agentHandler) Models(c *gin.Context) {
	models, err := h.models.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	type modelResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Provider    string `json:"provider"`
		Description string `json:"description"`
	}
	out := make([]modelResponse, 0, len(models))
	for _, model := range models {
		out = append(out, modelResponse{ID: model.ID, Name: model.Name, Provider: model.Provider, Description: model.Description})
	}
	c.JSON(http.StatusOK, out)
}
