package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
)

type fakeModelRepo struct {
	models map[string]domain.Model
}

func (f *fakeModelRepo) GetByID(ctx context.Context, id string) (*domain.Model, error) {
	m, ok := f.models[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

type fakeKnowledgeRepo struct {
	items map[string][]domain.KnowledgeItem
	err   error
}

func (f *fakeKnowledgeRepo) ListByAgent(ctx context.Context, agentID string) ([]domain.KnowledgeItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items[agentID], nil
}

type completionCall struct {
	systemPrompt string
	userPrompt   string
	model        string
}

type fakeCompletionClient struct {
	response string
	err      error
	calls    []completionCall
}

func (f *fakeCompletionClient) GenerateWithSystemPrompt(ctx context.Context, systemPrompt, userPrompt, model string) (string, error) {
	f.calls = append(f.calls, completionCall{systemPrompt: systemPrompt, userPrompt: userPrompt, model: model})
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newResponderFixture() (*fakeAgentRepo, *fakeModelRepo, *fakeKnowledgeRepo, *fakeCompletionClient) {
	agents := &fakeAgentRepo{agents: map[string]domain.Agent{
		"a1": {ID: "a1", Name: "Pulmonology", SystemPrompt: "You are a pulmonologist.", ModelID: "m1"},
	}}
	models := &fakeModelRepo{models: map[string]domain.Model{
		"m1": {ID: "m1", ProviderID: "gpt-4o-mini"},
	}}
	knowledge := &fakeKnowledgeRepo{items: map[string][]domain.KnowledgeItem{
		"a1": {{Title: "Asthma guideline", Content: "Use a stepwise approach."}},
	}}
	llm := &fakeCompletionClient{response: "take a deep breath"}
	return agents, models, knowledge, llm
}

func TestGeneratePromptAssembly(t *testing.T) {
	agents, models, knowledge, llm := newResponderFixture()
	responder := NewAgentResponder(agents, models, knowledge, llm)

	history := []domain.HistoryEntry{
		{Role: domain.RoleUser, Content: "I have a cough"},
		{Role: domain.RoleAgent, Content: "How long?"},
	}

	response, err := responder.Generate(context.Background(), "a1", "Two weeks now", history)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if response != "take a deep breath" {
		t.Fatalf("unexpected response %q", response)
	}

	if len(llm.calls) != 1 {
		t.Fatalf("expected one completion call, got %d", len(llm.calls))
	}
	call := llm.calls[0]

	if call.model != "gpt-4o-mini" {
		t.Fatalf("expected the agent's provider model id, got %q", call.model)
	}
	if !strings.HasPrefix(call.systemPrompt, "You are a pulmonologist.") {
		t.Fatalf("system prompt must start with the agent's prompt:\n%s", call.systemPrompt)
	}
	for _, want := range []string{"Relevant knowledge base information:", "Asthma guideline:", "Use a stepwise approach."} {
		if !strings.Contains(call.systemPrompt, want) {
			t.Fatalf("system prompt missing %q:\n%s", want, call.systemPrompt)
		}
	}
	if !strings.HasPrefix(call.userPrompt, "Two weeks now") {
		t.Fatalf("user prompt must start with the user message:\n%s", call.userPrompt)
	}
	for _, want := range []string{"Conversation history:", "user: I have a cough", "agent: How long?"} {
		if !strings.Contains(call.userPrompt, want) {
			t.Fatalf("user prompt missing %q:\n%s", want, call.userPrompt)
		}
	}
}

func TestGenerateWithoutKnowledgeOrHistory(t *testing.T) {
	agents, models, knowledge, llm := newResponderFixture()
	knowledge.items = nil
	responder := NewAgentResponder(agents, models, knowledge, llm)

	if _, err := responder.Generate(context.Background(), "a1", "hello", nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	call := llm.calls[0]
	if call.systemPrompt != "You are a pulmonologist." {
		t.Fatalf("expected bare system prompt, got %q", call.systemPrompt)
	}
	if call.userPrompt != "hello" {
		t.Fatalf("expected bare user prompt, got %q", call.userPrompt)
	}
}

func TestGenerateKnowledgeLookupFailureIsSoft(t *testing.T) {
	agents, models, knowledge, llm := newResponderFixture()
	knowledge.err = errors.New("store down")
	responder := NewAgentResponder(agents, models, knowledge, llm)

	response, err := responder.Generate(context.Background(), "a1", "hello", nil)
	if err != nil {
		t.Fatalf("knowledge failure must not fail generation, got %v", err)
	}
	if response != "take a deep breath" {
		t.Fatalf("unexpected response %q", response)
	}
}

func TestGenerateKnowledgeCap(t *testing.T) {
	agents, models, knowledge, llm := newResponderFixture()
	var items []domain.KnowledgeItem
	for i := 0; i < maxKnowledgeItems+3; i++ {
		items = append(items, domain.KnowledgeItem{Title: fmt.Sprintf("item-%d", i), Content: "c"})
	}
	knowledge.items = map[string][]domain.KnowledgeItem{"a1": items}
	responder := NewAgentResponder(agents, models, knowledge, llm)

	if _, err := responder.Generate(context.Background(), "a1", "hello", nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	prompt := llm.calls[0].systemPrompt
	if strings.Contains(prompt, fmt.Sprintf("item-%d", maxKnowledgeItems)) {
		t.Fatalf("knowledge block not capped:\n%s", prompt)
	}
	if !strings.Contains(prompt, "item-0") {
		t.Fatalf("expected first knowledge item in prompt:\n%s", prompt)
	}
}

func TestGenerateErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		agentID  string
		modelID  string
		llmErr   error
		wantKind domain.GenerationErrorKind
	}{
		{name: "unknown agent", agentID: "missing", wantKind: domain.GenerationErrorConfig},
		{name: "unknown model", agentID: "a1", modelID: "missing", wantKind: domain.GenerationErrorConfig},
		{name: "provider failure", agentID: "a1", llmErr: errors.New("quota"), wantKind: domain.GenerationErrorProvider},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			agents, models, knowledge, llm := newResponderFixture()
			if test.modelID != "" {
				agent := agents.agents["a1"]
				agent.ModelID = test.modelID
				agents.agents["a1"] = agent
			}
			llm.err = test.llmErr

			responder := NewAgentResponder(agents, models, knowledge, llm)
			_, err := responder.Generate(context.Background(), test.agentID, "hello", nil)
			if err == nil {
				t.Fatalf("expected error")
			}

			var genErr *domain.GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("expected GenerationError, got %T: %v", err, err)
			}
			if genErr.Kind != test.wantKind {
				t.Fatalf("expected kind %s, got %s", test.wantKind, genErr.Kind)
			}
		})
	}
}
