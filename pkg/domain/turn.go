package domain

// AgentResponse is one specialist's answer to a user turn.
type AgentResponse struct {
	AgentID   string `json:"agentId"`
	AgentName string `json:"agentName"`
	Response  string `json:"response"`
}

// TurnResult is everything produced in direct response to one user message.
// Final equals the single agent's response when orchestration was
// short-circuited, otherwise the orchestrator's synthesis.
type TurnResult struct {
	ConversationID       string
	AgentResponses       []AgentResponse
	OrchestratorResponse string
	Final                string
}

// HistoryEntry is the role/content pair fed into prompt assembly.
type HistoryEntry struct {
	Role    Role
	Content string
}
