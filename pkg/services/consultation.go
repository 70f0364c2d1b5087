package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
	"github.com/Looping69/AI-Agentic-Medical/pkg/logger"
)

type ConversationStore interface {
	Create(ctx context.Context, userID, title string) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
}

type MessageStore interface {
	Add(ctx context.Context, conversationID string, role domain.Role, content string, agentID *string) (string, error)
	ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error)
}

type PatientRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Patient, error)
}

type ConsultationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Consultation, error)
	Create(ctx context.Context, consultation *domain.Consultation) error
}

type AgentResponder interface {
	Generate(ctx context.Context, agentID, userMessage string, history []domain.HistoryEntry) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, userMessage string, responses []domain.AgentResponse, history []domain.HistoryEntry) (string, error)
}

type consultationService struct {
	conversations ConversationStore
	messages      MessageStore
	patients      PatientRepository
	consultations ConsultationRepository
	agents        AgentRepository
	responder     AgentResponder
	synthesizer   Synthesizer
	now           func() time.Time
}

func NewConsultationService(
	conversations ConversationStore,
	messages MessageStore,
	patients PatientRepository,
	consultations ConsultationRepository,
	agents AgentRepository,
	responder AgentResponder,
	synthesizer Synthesizer,
) *consultationService {
	return &consultationService{
		conversations: conversations,
		messages:      messages,
		patients:      patients,
		consultations: consultations,
		agents:        agents,
		responder:     responder,
		synthesizer:   synthesizer,
		now:           time.Now,
	}
}

// StartConsultation creates the consultation together with its backing
// conversation.
func (s *consultationService) StartConsultation(ctx context.Context, consultation *domain.Consultation) error {
	patient, err := s.patients.GetByID(ctx, consultation.PatientID)
	if err != nil {
		return fmt.Errorf("resolving patient: %w", err)
	}

	title := fmt.Sprintf("Consultation: %s %s", patient.FirstName, patient.LastName)
	conversationID, err := s.conversations.Create(ctx, consultation.DoctorID, title)
	if err != nil {
		return fmt.Errorf("creating conversation: %w", err)
	}
	consultation.ConversationID = conversationID

	if err := s.consultations.Create(ctx, consultation); err != nil {
		return err
	}

	return nil
}

// RunConversationTurn drives one user turn of the dashboard chat flow:
// append the user message, generate each selected agent's response in order
// with earlier responses as conditioning context, then synthesize when more
// than one agent answered. An empty conversation id starts a fresh
// conversation owned by userID.
func (s *consultationService) RunConversationTurn(ctx context.Context, conversationID, userID, message string, agentIDs []string) (*domain.TurnResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message is empty")
	}
	if len(agentIDs) == 0 {
		return nil, fmt.Errorf("no agents selected")
	}

	if conversationID == "" {
		id, err := s.conversations.Create(ctx, userID, "")
		if err != nil {
			return nil, fmt.Errorf("creating conversation: %w", err)
		}
		conversationID = id
	}

	return s.runTurn(ctx, conversationID, message, agentIDs, nil)
}

// RunConsultationTurn is the consultation-endpoint variant: the agent set
// comes from the consultation record and the patient's chart is injected as
// context for every generation.
func (s *consultationService) RunConsultationTurn(ctx context.Context, consultationID, userID, message string) (*domain.TurnResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message is empty")
	}

	consultation, err := s.consultations.GetByID(ctx, consultationID)
	if err != nil {
		return nil, fmt.Errorf("resolving consultation: %w", err)
	}
	if len(consultation.AgentIDs) == 0 {
		return nil, fmt.Errorf("no agents found for this consultation")
	}

	patient, err := s.patients.GetByID(ctx, consultation.PatientID)
	if err != nil {
		return nil, fmt.Errorf("resolving patient: %w", err)
	}

	return s.runTurn(ctx, consultation.ConversationID, message, consultation.AgentIDs, patient)
}

func (s *consultationService) runTurn(ctx context.Context, conversationID, message string, agentIDs []string, patient *domain.Patient) (*domain.TurnResult, error) {
	if _, err := s.messages.Add(ctx, conversationID, domain.RoleUser, message, nil); err != nil {
		return nil, fmt.Errorf("storing user message: %w", err)
	}

	stored, err := s.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("loading conversation history: %w", err)
	}

	history := lo.Map(stored, func(msg domain.Message, _ int) domain.HistoryEntry {
		return domain.HistoryEntry{Role: msg.Role, Content: msg.Content}
	})
	if patient != nil {
		// The chart travels as a leading system entry so every prompt in
		// this turn sees it.
		history = append([]domain.HistoryEntry{{Role: domain.RoleSystem, Content: s.patientContext(patient)}}, history...)
	}

	var responses []domain.AgentResponse

	// Sequential-conditioned generation: each agent's prompt includes the
	// responses of the agents before it in selection order.
	conditioned := history
	for _, agentID := range agentIDs {
		agent, err := s.agents.GetByID(ctx, agentID)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unresolved agent", "agentID", agentID, logger.Err(err))
			continue
		}

		response, err := s.responder.Generate(ctx, agentID, message, conditioned)
		if err != nil {
			slog.ErrorContext(ctx, "Agent generation failed", "agent", agent.Name, logger.Err(err))
			response = domain.AgentFallbackMessage
		}

		agentRef := agentID
		if _, err := s.messages.Add(ctx, conversationID, domain.RoleAgent, response, &agentRef); err != nil {
			return nil, fmt.Errorf("storing agent message: %w", err)
		}

		conditioned = append(conditioned, domain.HistoryEntry{Role: domain.RoleAgent, Content: response})
		responses = append(responses, domain.AgentResponse{
			AgentID:   agentID,
			AgentName: agent.Name,
			Response:  response,
		})
	}

	if len(responses) == 0 {
		return nil, fmt.Errorf("no agents produced a response")
	}

	result := &domain.TurnResult{
		ConversationID: conversationID,
		AgentResponses: responses,
	}

	// A single response is final as-is; no orchestrator message is stored.
	if len(responses) == 1 {
		result.Final = responses[0].Response
		return result, nil
	}

	// The synthesis prompt lists this turn's responses itself, so it gets
	// the pre-turn history.
	synthesis, err := s.synthesizer.Synthesize(ctx, message, responses, history)
	if err != nil {
		slog.ErrorContext(ctx, "Orchestrator synthesis failed", logger.Err(err))
		synthesis = domain.OrchestratorFallbackMessage
	}

	if _, err := s.messages.Add(ctx, conversationID, domain.RoleOrchestrator, synthesis, nil); err != nil {
		return nil, fmt.Errorf("storing orchestrator message: %w", err)
	}

	result.OrchestratorResponse = synthesis
	result.Final = synthesis
	return result, nil
}

// patientContext renders the chart block injected ahead of consultation
// prompts.
func (s *consultationService) patientContext(patient *domain.Patient) string {
	orNone := func(values []string) string {
		if len(values) == 0 {
			return "None"
		}
		return strings.Join(values, ", ")
	}

	gender := patient.Gender
	if gender == "" {
		gender = "Not specified"
	}
	medicalHistory := patient.MedicalHistory
	if medicalHistory == "" {
		medicalHistory = "None"
	}
	lastVisit := "N/A"
	if patient.LastVisit != nil {
		lastVisit = patient.LastVisit.Format("2006-01-02")
	}

	return fmt.Sprintf(`Patient: %s %s
Age: %s
Gender: %s
Medical History: %s
Conditions: %s
Medications: %s
Allergies: %s
Last Visit: %s`,
		patient.FirstName, patient.LastName,
		patient.Age(s.now()),
		gender,
		medicalHistory,
		orNone(patient.Conditions),
		orNone(patient.Medications),
		orNone(patient.Allergies),
		lastVisit,
	)
}
