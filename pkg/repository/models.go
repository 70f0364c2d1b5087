package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
)

type modelsRepository struct {
	db *sql.DB
}

func NewModelsRepository(db *sql.DB) *modelsRepository {
	return &modelsRepository{db: db}
}

func (m *modelsRepository) ListActive(ctx context.Context) ([]domain.Model, error) {
	const query = `
		SELECT id, name, provider, provider_id, description, is_active
		FROM models
		WHERE is_active
		ORDER BY name
	`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	defer rows.Close()

	var models []domain.Model
	for rows.Next() {
		var model domain.Model
		if err := rows.Scan(&model.ID, &model.Name, &model.Provider, &model.ProviderID, &model.Description, &model.IsActive); err != nil {
			return nil, fmt.Errorf("scanning model: %w", err)
		}
		models = append(models, model)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating models: %w", err)
	}

	return models, nil
}

func (m *modelsRepository) GetByID(ctx context.Context, id string) (*domain.Model, error) {
	const query = `
		SELECT id, name, provider, provider_id, description, is_active
		FROM models
		WHERE id = $1
	`

	var model domain.Model
	err := m.db.QueryRowContext(ctx, query, id).
		Scan(&model.ID, &model.Name, &model.Provider, &model.ProviderID, &model.Description, &model.IsActive)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching model by id: %w", err)
	}

	return &model, nil
}
