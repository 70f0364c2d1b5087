package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
)

type orchestratorRepository struct {
	db *sql.DB
}

func NewOrchestratorRepository(db *sql.DB) *orchestratorRepository {
	return &orchestratorRepository{db: db}
}

// GetActive returns the active orchestrator configuration. The active flag
// is expected to be set on at most one row.
func (o *orchestratorRepository) GetActive(ctx context.Context) (*domain.OrchestratorConfig, error) {
	const query = `
		SELECT id, name, description, system_prompt, model_id, is_active
		FROM orchestrator_configs
		WHERE is_active
		LIMIT 1
	`

	var cfg domain.OrchestratorConfig
	err := o.db.QueryRowContext(ctx, query).
		Scan(&cfg.ID, &cfg.Name, &cfg.Description, &cfg.SystemPrompt, &cfg.ModelID, &cfg.IsActive)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching active orchestrator config: %w", err)
	}

	return &cfg, nil
}
