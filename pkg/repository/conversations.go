package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
)

type conversationsRepository struct {
	db *sql.DB
}

func NewConversationsRepository(db *sql.DB) *conversationsRepository {
	return &conversationsRepository{db: db}
}

func (c *conversationsRepository) Create(ctx context.Context, userID, title string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is empty")
	}
	if title == "" {
		title = domain.DefaultConversationTitle
	}

	const query = `
		INSERT INTO conversations (user_id, title)
		VALUES ($1, $2)
		RETURNING id
	`

	var id string
	if err := c.db.QueryRowContext(ctx, query, userID, title).Scan(&id); err != nil {
		return "", fmt.Errorf("creating conversation: %w", err)
	}

	return id, nil
}

func (c *conversationsRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	const query = `
		SELECT id, user_id, title, created_at
		FROM conversations
		WHERE id = $1
	`

	var conv domain.Conversation
	err := c.db.QueryRowContext(ctx, query, id).
		Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching conversation by id: %w", err)
	}

	return &conv, nil
}
