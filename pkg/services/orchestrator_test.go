package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
)

type fakeOrchestratorConfigRepo struct {
	cfg *domain.OrchestratorConfig
}

func (f *fakeOrchestratorConfigRepo) GetActive(ctx context.Context) (*domain.OrchestratorConfig, error) {
	if f.cfg == nil {
		return nil, domain.ErrNotFound
	}
	return f.cfg, nil
}

func newOrchestratorFixture() (*fakeOrchestratorConfigRepo, *fakeModelRepo, *fakeCompletionClient) {
	configs := &fakeOrchestratorConfigRepo{cfg: &domain.OrchestratorConfig{
		ID:           "o1",
		Name:         "Coordinator",
		SystemPrompt: "You merge specialist answers.",
		ModelID:      "m1",
	}}
	models := &fakeModelRepo{models: map[string]domain.Model{
		"m1": {ID: "m1", ProviderID: "gpt-4o"},
	}}
	llm := &fakeCompletionClient{response: "merged answer"}
	return configs, models, llm
}

func sampleResponses() []domain.AgentResponse {
	return []domain.AgentResponse{
		{AgentID: "a1", AgentName: "General Medicine", Response: "likely viral"},
		{AgentID: "a2", AgentName: "Pulmonology", Response: "order an x-ray"},
	}
}

func TestSynthesizePrompt(t *testing.T) {
	configs, models, llm := newOrchestratorFixture()
	svc := NewOrchestratorService(configs, models, llm)

	history := []domain.HistoryEntry{{Role: domain.RoleUser, Content: "Patient has a cough"}}

	response, err := svc.Synthesize(context.Background(), "Patient has a cough", sampleResponses(), history)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if response != "merged answer" {
		t.Fatalf("unexpected response %q", response)
	}

	call := llm.calls[0]
	if call.systemPrompt != "You merge specialist answers." {
		t.Fatalf("expected orchestrator system prompt, got %q", call.systemPrompt)
	}
	if call.model != "gpt-4o" {
		t.Fatalf("expected orchestrator model, got %q", call.model)
	}
	for _, want := range []string{
		"User query: Patient has a cough",
		"General Medicine (a1): likely viral",
		"Pulmonology (a2): order an x-ray",
		"Please synthesize these responses",
		"user: Patient has a cough",
	} {
		if !strings.Contains(call.userPrompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, call.userPrompt)
		}
	}
}

func TestSynthesizeRequiresTwoResponses(t *testing.T) {
	configs, models, llm := newOrchestratorFixture()
	svc := NewOrchestratorService(configs, models, llm)

	_, err := svc.Synthesize(context.Background(), "q", sampleResponses()[:1], nil)
	if err == nil {
		t.Fatalf("expected error for a single response")
	}
	if len(llm.calls) != 0 {
		t.Fatalf("expected no completion call, got %d", len(llm.calls))
	}
}

func TestSynthesizeErrorKinds(t *testing.T) {
	t.Run("missing config", func(t *testing.T) {
		configs, models, llm := newOrchestratorFixture()
		configs.cfg = nil
		svc := NewOrchestratorService(configs, models, llm)

		_, err := svc.Synthesize(context.Background(), "q", sampleResponses(), nil)
		var genErr *domain.GenerationError
		if !errors.As(err, &genErr) || genErr.Kind != domain.GenerationErrorConfig {
			t.Fatalf("expected config error, got %v", err)
		}
	})

	t.Run("provider failure", func(t *testing.T) {
		configs, models, llm := newOrchestratorFixture()
		llm.err = errors.New("timeout")
		svc := NewOrchestratorService(configs, models, llm)

		_, err := svc.Synthesize(context.Background(), "q", sampleResponses(), nil)
		var genErr *domain.GenerationError
		if !errors.As(err, &genErr) || genErr.Kind != domain.GenerationErrorProvider {
			t.Fatalf("expected provider error, got %v", err)
		}
	})
}
