package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Looping69/AI-Agentic-Medical/pkg/auth"
)

// Handlers bundles the constructed endpoint handlers for route
// registration.
type Handlers struct {
	Consultations *consultationHandler
	Conversations *conversationHandler
	Patients      *patientHandler
	Agents        *agentHandler
}

// NewRouter mounts all v1 API routes.
func NewRouter(authenticator *auth.Authenticator, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), CORS(), RequestID())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// Standalone orchestrator route, kept for the dashboard's existing
	// callable-function contract.
	r.POST("/agent-orchestrator", Auth(authenticator), h.Consultations.Turn)

	v1 := r.Group("/api/v1", Auth(authenticator))

	v1.GET("/agents", h.Agents.List)
	v1.GET("/agents/:id", h.Agents.Get)
	v1.GET("/agents/:id/knowledge", h.Agents.Knowledge)
	v1.GET("/models", h.Agents.Models)

	v1.GET("/patients", h.Patients.List)
	v1.POST("/patients", h.Patients.Create)
	v1.GET("/patients/:id", h.Patients.Get)
	v1.PUT("/patients/:id", h.Patients.Update)
	v1.DELETE("/patients/:id", RequireAdmin(), h.Patients.Delete)

	v1.GET("/consultations", h.Consultations.List)
	v1.POST("/consultations", h.Consultations.Create)
	v1.GET("/consultations/:id", h.Consultations.Get)
	v1.POST("/consultations/:id/complete", h.Consultations.Complete)
	v1.POST("/consultations/:id/cancel", h.Consultations.Cancel)
	v1.POST("/consultations/:id/messages", h.Consultations.Turn)

	v1.POST("/conversations", h.Conversations.Create)
	v1.GET("/conversations/:id/messages", h.Conversations.Messages)
	v1.POST("/conversations/:id/messages", h.Conversations.Turn)

	return r
}
