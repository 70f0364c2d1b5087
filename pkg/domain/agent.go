package domain

import "time"

// Agent is a stored configuration simulating a medical specialty's response
// style. It is read-only from the consultation flow; administrative CRUD
// manages it separately.
type Agent struct {
	ID           string
	Name         string
	Description  string
	Specialty    string
	IconName     string
	SystemPrompt string
	ModelID      string
	IsPremium    bool
	IsActive     bool
	CreatedAt    time.Time
}

// Model maps an agent's model reference to a provider model id.
type Model struct {
	ID          string
	Name        string
	Provider    string
	ProviderID  string
	Description string
	IsActive    bool
}

// KnowledgeItem is free-text context injected into an agent's system prompt
// at generation time.
type KnowledgeItem struct {
	ID      string
	AgentID string
	Title   string
	Content string
}

// OrchestratorConfig is the singleton configuration used to merge multiple
// agents' responses into one answer. At most one config is active.
type OrchestratorConfig struct {
	ID           string
	Name         string
	Description  string
	SystemPrompt string
	ModelID      string
	IsActive     bool
}
