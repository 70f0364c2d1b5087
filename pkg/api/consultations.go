package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
)

type ConsultationService interface {
	StartConsultation(ctx context.Context, consultation *domain.Consultation) error
	RunConsultationTurn(ctx context.Context, consultationID, userID, message string) (*domain.TurnResult, error)
}

type ConsultationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Consultation, error)
	List(ctx context.Context) ([]domain.Consultation, error)
	ListByPatient(ctx context.Context, patientID string) ([]domain.Consultation, error)
	Complete(ctx context.Context, id, diagnosis string, recommendations []string, notes string) error
	SetStatus(ctx context.Context, id string, status domain.ConsultationStatus) error
}

type consultationHandler struct {
	service ConsultationService
	repo    ConsultationRepository
}

func NewConsultationHandler(service ConsultationService, repo ConsultationRepository) *consultationHandler {
	return &consultationHandler{service: service, repo: repo}
}

type createConsultationRequest struct {
	PatientID string   `json:"patientId" binding:"required"`
	DoctorID  string   `json:"doctorId" binding:"required"`
	AgentIDs  []string `json:"agentIds" binding:"required"`
	Symptoms  []string `json:"symptoms"`
	Notes     string   `json:"notes"`
}

func (h *consultationHandler) Create(c *gin.Context) {
	var req createConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	consultation := &domain.Consultation{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		AgentIDs:  req.AgentIDs,
		Symptoms:  req.Symptoms,
		Notes:     req.Notes,
	}

	if err := h.service.StartConsultation(c.Request.Context(), consultation); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "patient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toConsultationResponse(consultation))
}

func (h *consultationHandler) List(c *gin.Context) {
	var (
		consultations []domain.Consultation
		err           error
	)
	if patientID := c.Query("patientId"); patientID != "" {
		consultations, err = h.repo.ListByPatient(c.Request.Context(), patientID)
	} else {
		consultations, err = h.repo.List(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]consultationResponse, 0, len(consultations))
	for i := range consultations {
		out = append(out, toConsultationResponse(&consultations[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *consultationHandler) Get(c *gin.Context) {
	consultation, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "consultation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toConsultationResponse(consultation))
}

type completeConsultationRequest struct {
	Diagnosis       string   `json:"diagnosis"`
	Recommendations []string `json:"recommendations"`
	Notes           string   `json:"notes"`
}

func (h *consultationHandler) Complete(c *gin.Context) {
	var req completeConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.repo.Complete(c.Request.Context(), c.Param("id"), req.Diagnosis, req.Recommendations, req.Notes)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "consultation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *consultationHandler) Cancel(c *gin.Context) {
	err := h.repo.SetStatus(c.Request.Context(), c.Param("id"), domain.ConsultationCancelled)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "consultation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

type consultationTurnRequest struct {
	ConsultationID string `json:"consultationId"`
	Message        string `json:"message"`
	UserID         string `json:"userId"`
}

type consultationTurnResponse struct {
	AgentResponses       []domain.AgentResponse `json:"agentResponses"`
	OrchestratorResponse string                 `json:"orchestratorResponse"`
}

// Turn runs the full per-agent-generation plus orchestration sequence,
// persisting every message as a side effect. Any failure maps to 400 with
// an {error} body, which is the contract the dashboard expects.
func (h *consultationHandler) Turn(c *gin.Context) {
	var req consultationTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The id may come from the path or, for the standalone orchestrator
	// route, from the body.
	consultationID := c.Param("id")
	if consultationID == "" {
		consultationID = req.ConsultationID
	}

	if consultationID == "" || req.Message == "" || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters"})
		return
	}

	result, err := h.service.RunConsultationTurn(c.Request.Context(), consultationID, req.UserID, req.Message)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, consultationTurnResponse{
		AgentResponses:       result.AgentResponses,
		OrchestratorResponse: result.OrchestratorResponse,
	})
}

type consultationResponse struct {
	ID              string   `json:"id"`
	PatientID       string   `json:"patientId"`
	DoctorID        string   `json:"doctorId"`
	ConversationID  string   `json:"conversationId"`
	AgentIDs        []string `json:"agentIds"`
	Symptoms        []string `json:"symptoms"`
	Diagnosis       string   `json:"diagnosis"`
	Recommendations []string `json:"recommendations"`
	Notes           string   `json:"notes"`
	Status          string   `json:"status"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

func toConsultationResponse(consultation *domain.Consultation) consultationResponse {
	return consultationResponse{
		ID:              consultation.ID,
		PatientID:       consultation.PatientID,
		DoctorID:        consultation.DoctorID,
		ConversationID:  consultation.ConversationID,
		AgentIDs:        consultation.AgentIDs,
		Symptoms:        consultation.Symptoms,
		Diagnosis:       consultation.Diagnosis,
		Recommendations: consultation.Recommendations,
		Notes:           consultation.Notes,
		Status:          string(consultation.Status),
		CreatedAt:       consultation.CreatedAt.Format(timeFormat),
		UpdatedAt:       consultation.UpdatedAt.Format(timeFormat),
	}
}
