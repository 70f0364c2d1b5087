package domain

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleUser         Role = "user"
	RoleAgent        Role = "agent"
	RoleSystem       Role = "system"
	RoleOrchestrator Role = "orchestrator"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAgent, RoleSystem, RoleOrchestrator:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown message role %q", s)
}

type Message struct {
	ID             string
	ConversationID string
	Role           Role
	Content        string
	AgentID        *string
	CreatedAt      time.Time
}

// Validate enforces that only agent messages carry an agent reference.
func (m Message) Validate() error {
	if _, err := ParseRole(string(m.Role)); err != nil {
		return err
	}
	if m.Role == RoleAgent && (m.AgentID == nil || *m.AgentID == "") {
		return fmt.Errorf("agent message without agent id")
	}
	if m.Role != RoleAgent && m.AgentID != nil {
		return fmt.Errorf("%s message must not carry an agent id", m.Role)
	}
	return nil
}
