package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
)

type agentsRepository struct {
	db *sql.DB
}

func NewAgentsRepository(db *sql.DB) *agentsRepository {
	return &agentsRepository{db: db}
}

const agentColumns = `id, name, description, specialty, icon_name, system_prompt, model_id, is_premium, is_active, created_at`

func (a *agentsRepository) ListActive(ctx context.Context) ([]domain.Agent, error) {
	query := `
		SELECT ` + agentColumns + `
		FROM agents
		WHERE is_active
		ORDER BY name
	`

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing agents: %w", err)
	}
	defer rows.Close()

	var agents []domain.Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating agents: %w", err)
	}

	return agents, nil
}

func (a *agentsRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	query := `
		SELECT ` + agentColumns + `
		FROM agents
		WHERE id = $1
	`

	row := a.db.QueryRowContext(ctx, query, id)
	agent, err := scanAgent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching agent by id: %w", err)
	}

	return &agent, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (domain.Agent, error) {
	var agent domain.Agent
	err := row.Scan(
		&agent.ID,
		&agent.Name,
		&agent.Description,
		&agent.Specialty,
		&agent.IconName,
		&agent.SystemPrompt,
		&agent.ModelID,
		&agent.IsPremium,
		&agent.IsActive,
		&agent.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Agent{}, sql.ErrNoRows
		}
		return domain.Agent{}, fmt.Errorf("scanning agent: %w", err)
	}
	return agent, nil
}
