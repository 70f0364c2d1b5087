package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
)

type knowledgeRepository struct {
	db *sql.DB
}

func NewKnowledgeRepository(db *sql.DB) *knowledgeRepository {
	return &knowledgeRepository{db: db}
}

func (k *knowledgeRepository) ListByAgent(ctx context.Context, agentID string) ([]domain.KnowledgeItem, error) {
	const query = `
		SELECT id, agent_id, title, content
		FROM knowledge_items
		WHERE agent_id = $1
		ORDER BY title
	`

	rows, err := k.db.QueryContext(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("listing knowledge items: %w", err)
	}
	defer rows.Close()

	var items []domain.KnowledgeItem
	for rows.Next() {
		var item domain.KnowledgeItem
		if err := rows.Scan(&item.ID, &item.AgentID, &item.Title, &item.Content); err != nil {
			return nil, fmt.Errorf("scanning knowledge item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating knowledge items: %w", err)
	}

	return items, nil
}
