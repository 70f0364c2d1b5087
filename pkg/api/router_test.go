package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Looping69/AI-Agentic-Medical/pkg/auth"
	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
	"github.com/Looping69/AI-Agentic-Medical/pkg/repository"
)

type fakeConsultationService struct {
	turnResult *domain.TurnResult
	turnErr    error
	lastTurn   []string
}

func (f *fakeConsultationService) StartConsultation(ctx context.Context, consultation *domain.Consultation) error {
	consultation.ID = "cons-1"
	return nil
}

func (f *fakeConsultationService) RunConsultationTurn(ctx context.Context, consultationID, userID, message string) (*domain.TurnResult, error) {
	f.lastTurn = []string{consultationID, userID, message}
	if f.turnErr != nil {
		return nil, f.turnErr
	}
	return f.turnResult, nil
}

func (f *fakeConsultationService) RunConversationTurn(ctx context.Context, conversationID, userID, message string, agentIDs []string) (*domain.TurnResult, error) {
	if f.turnErr != nil {
		return nil, f.turnErr
	}
	return f.turnResult, nil
}

type fakeConsultationRepo struct{}

func (f *fakeConsultationRepo) GetByID(ctx context.Context, id string) (*domain.Consultation, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeConsultationRepo) List(ctx context.Context) ([]domain.Consultation, error) {
	return nil, nil
}
func (f *fakeConsultationRepo) ListByPatient(ctx context.Context, patientID string) ([]domain.Consultation, error) {
	return nil, nil
}
func (f *fakeConsultationRepo) Complete(ctx context.Context, id, diagnosis string, recommendations []string, notes string) error {
	return domain.ErrNotFound
}
func (f *fakeConsultationRepo) SetStatus(ctx context.Context, id string, status domain.ConsultationStatus) error {
	return domain.ErrNotFound
}

type fakePatientRepo struct{}

func (f *fakePatientRepo) Create(ctx context.Context, patient *domain.Patient) error { return nil }
func (f *fakePatientRepo) Update(ctx context.Context, patient *domain.Patient) error {
	return domain.ErrNotFound
}
func (f *fakePatientRepo) Delete(ctx context.Context, id string) error { return domain.ErrNotFound }
func (f *fakePatientRepo) GetByID(ctx context.Context, id string) (*domain.Patient, error) {
	return nil, domain.ErrNotFound
}
func (f *fakePatientRepo) List(ctx context.Context) ([]domain.Patient, error)  { return nil, nil }
func (f *fakePatientRepo) Search(ctx context.Context, term string) ([]domain.Patient, error) {
	return nil, nil
}

type fakeAgentRepo struct{}

func (f *fakeAgentRepo) ListActive(ctx context.Context) ([]domain.Agent, error) { return nil, nil }
func (f *fakeAgentRepo) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	return nil, domain.ErrNotFound
}

type fakeModelRepo struct{}

func (f *fakeModelRepo) ListActive(ctx context.Context) ([]domain.Model, error) { return nil, nil }

type fakeKnowledgeRepo struct{}

func (f *fakeKnowledgeRepo) ListByAgent(ctx context.Context, agentID string) ([]domain.KnowledgeItem, error) {
	return nil, nil
}

func newTestRouter(t *testing.T, service *fakeConsultationService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryConversationStore()
	authenticator := auth.NewAuthenticator([]string{"doc-token:doctor", "admin-token:admin"}, false)

	return NewRouter(authenticator, Handlers{
		Consultations: NewConsultationHandler(service, &fakeConsultationRepo{}),
		Conversations: NewConversationHandler(store, store, service, &fakeAgentRepo{}),
		Patients:      NewPatientHandler(&fakePatientRepo{}),
		Agents:        NewAgentHandler(&fakeAgentRepo{}, &fakeModelRepo{}, &fakeKnowledgeRepo{}),
	})
}

func doRequest(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t, &fakeConsultationService{})

	w := doRequest(r, http.MethodOptions, "/agent-orchestrator", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 preflight, got %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Fatalf("expected 'ok' body, got %q", w.Body.String())
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(got, "x-client-info") {
		t.Fatalf("expected header allow-list, got %q", got)
	}
}

func TestAuthRejectsUnknownToken(t *testing.T) {
	r := newTestRouter(t, &fakeConsultationService{})

	w := doRequest(r, http.MethodGet, "/api/v1/agents", "bad-token", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAdminGuard(t *testing.T) {
	r := newTestRouter(t, &fakeConsultationService{})

	w := doRequest(r, http.MethodDelete, "/api/v1/patients/p1", "doc-token", "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for doctor, got %d", w.Code)
	}

	w = doRequest(r, http.MethodDelete, "/api/v1/patients/p1", "admin-token", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected admin to reach the handler, got %d", w.Code)
	}
}

func TestOrchestratorEndpoint(t *testing.T) {
	service := &fakeConsultationService{turnResult: &domain.TurnResult{
		AgentResponses: []domain.AgentResponse{
			{AgentID: "a1", AgentName: "General Medicine", Response: "r1"},
			{AgentID: "a2", AgentName: "Pulmonology", Response: "r2"},
		},
		OrchestratorResponse: "merged",
		Final:                "merged",
	}}
	r := newTestRouter(t, service)

	body := `{"consultationId":"c1","message":"Patient has a cough","userId":"u1"}`
	w := doRequest(r, http.MethodPost, "/agent-orchestrator", "doc-token", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		AgentResponses       []domain.AgentResponse `json:"agentResponses"`
		OrchestratorResponse string                 `json:"orchestratorResponse"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.AgentResponses) != 2 || resp.OrchestratorResponse != "merged" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	if service.lastTurn[0] != "c1" || service.lastTurn[2] != "Patient has a cough" {
		t.Fatalf("unexpected service call: %v", service.lastTurn)
	}
}

func TestOrchestratorEndpointMissingParameters(t *testing.T) {
	r := newTestRouter(t, &fakeConsultationService{})

	w := doRequest(r, http.MethodPost, "/agent-orchestrator", "doc-token", `{"message":"hi"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error != "Missing required parameters" {
		t.Fatalf("unexpected error %q", resp.Error)
	}
}

func TestOrchestratorEndpointFailureIs400(t *testing.T) {
	service := &fakeConsultationService{turnErr: context.DeadlineExceeded}
	r := newTestRouter(t, service)

	body := `{"consultationId":"c1","message":"hi","userId":"u1"}`
	w := doRequest(r, http.MethodPost, "/agent-orchestrator", "doc-token", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on turn failure, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "error") {
		t.Fatalf("expected error envelope, got %s", w.Body.String())
	}
}

func TestConversationMessagesEmptyRead(t *testing.T) {
	r := newTestRouter(t, &fakeConsultationService{})

	w := doRequest(r, http.MethodGet, "/api/v1/conversations/unknown/messages", "doc-token", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown conversation, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %s", w.Body.String())
	}
}
