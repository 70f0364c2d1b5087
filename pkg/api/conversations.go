package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
	"github.com/Looping69/AI-Agentic-Medical/pkg/render"
)

const timeFormat = time.RFC3339

type ConversationStore interface {
	Create(ctx context.Context, userID, title string) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
}

type MessageStore interface {
	ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error)
}

type ConversationTurnRunner interface {
	RunConversationTurn(ctx context.Context, conversationID, userID, message string, agentIDs []string) (*domain.TurnResult, error)
}

type AgentDirectory interface {
	ListActive(ctx context.Context) ([]domain.Agent, error)
}

type conversationHandler struct {
	conversations ConversationStore
	messages      MessageStore
	turns         ConversationTurnRunner
	agents        AgentDirectory
}

func NewConversationHandler(
	conversations ConversationStore,
	messages MessageStore,
	turns ConversationTurnRunner,
	agents AgentDirectory,
) *conversationHandler {
	return &conversationHandler{
		conversations: conversations,
		messages:      messages,
		turns:         turns,
		agents:        agents,
	}
}

type createConversationRequest struct {
	UserID string `json:"userId" binding:"required"`
	Title  string `json:"title"`
}

func (h *conversationHandler) Create(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.conversations.Create(c.Request.Context(), req.UserID, req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type conversationTurnRequest struct {
	UserID   string   `json:"userId" binding:"required"`
	Message  string   `json:"message" binding:"required"`
	AgentIDs []string `json:"agentIds" binding:"required"`
}

type conversationTurnResponse struct {
	ConversationID       string                 `json:"conversationId"`
	AgentResponses       []domain.AgentResponse `json:"agentResponses"`
	OrchestratorResponse string                 `json:"orchestratorResponse,omitempty"`
	Final                string                 `json:"final"`
}

// Turn drives one user turn of the dashboard chat flow against the selected
// agents.
func (h *conversationHandler) Turn(c *gin.Context) {
	var req conversationTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.turns.RunConversationTurn(c.Request.Context(), c.Param("id"), req.UserID, req.Message, req.AgentIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, conversationTurnResponse{
		ConversationID:       result.ConversationID,
		AgentResponses:       result.AgentResponses,
		OrchestratorResponse: result.OrchestratorResponse,
		Final:                result.Final,
	})
}

type messageResponse struct {
	ID             string  `json:"id"`
	ConversationID string  `json:"conversationId"`
	Role           string  `json:"role"`
	Content        string  `json:"content"`
	AgentID        *string `json:"agentId"`
	CreatedAt      string  `json:"createdAt"`
}

// Messages returns the ordered transcript. An unknown conversation id yields
// an empty list; format=html renders the transcript for export instead.
func (h *conversationHandler) Messages(c *gin.Context) {
	ctx := c.Request.Context()
	conversationID := c.Param("id")

	messages, err := h.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if c.Query("format") == "html" {
		h.renderHTML(c, conversationID, messages)
		return
	}

	out := make([]messageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, messageResponse{
			ID:             msg.ID,
			ConversationID: msg.ConversationID,
			Role:           string(msg.Role),
			Content:        msg.Content,
			AgentID:        msg.AgentID,
			CreatedAt:      msg.CreatedAt.Format(timeFormat),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *conversationHandler) renderHTML(c *gin.Context, conversationID string, messages []domain.Message) {
	ctx := c.Request.Context()

	conversation, err := h.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	agentNames := make(map[string]string)
	if agents, err := h.agents.ListActive(ctx); err == nil {
		for _, agent := range agents {
			agentNames[agent.ID] = agent.Name
		}
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(render.TranscriptHTML(conversation, messages, agentNames)))
}
