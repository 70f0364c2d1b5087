package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
)

type messagesRepository struct {
	db *sql.DB
}

func NewMessagesRepository(db *sql.DB) *messagesRepository {
	return &messagesRepository{db: db}
}

func (m *messagesRepository) Add(ctx context.Context, conversationID string, role domain.Role, content string, agentID *string) (string, error) {
	msg := domain.Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		AgentID:        agentID,
	}
	if err := msg.Validate(); err != nil {
		return "", fmt.Errorf("validating message: %w", err)
	}

	const query = `
		INSERT INTO messages (conversation_id, role, content, agent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id string
	if err := m.db.QueryRowContext(ctx, query, conversationID, string(role), content, agentID).Scan(&id); err != nil {
		return "", fmt.Errorf("adding message: %w", err)
	}

	return id, nil
}

// ListByConversation returns the conversation's messages ascending by
// creation time. An unknown conversation id yields an empty slice, not an
// error; store failures are returned as errors.
func (m *messagesRepository) ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	const query = `
		SELECT id, conversation_id, role, content, agent_id, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`

	rows, err := m.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var role string
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &role, &msg.Content, &msg.AgentID, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msg.Role = domain.Role(role)
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	return messages, nil
}
