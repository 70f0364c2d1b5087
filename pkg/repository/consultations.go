package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
)

type consultationsRepository struct {
	db *sql.DB
}

func NewConsultationsRepository(db *sql.DB) *consultationsRepository {
	return &consultationsRepository{db: db}
}

const consultationColumns = `id, patient_id, doctor_id, conversation_id, agent_ids, symptoms,
		diagnosis, recommendations, notes, status, created_at, updated_at`

func (c *consultationsRepository) Create(ctx context.Context, consultation *domain.Consultation) error {
	const query = `
		INSERT INTO consultations (patient_id, doctor_id, conversation_id, agent_ids, symptoms, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	if consultation.Status == "" {
		consultation.Status = domain.ConsultationInProgress
	}

	err := c.db.QueryRowContext(ctx, query,
		consultation.PatientID,
		consultation.DoctorID,
		consultation.ConversationID,
		stringList(consultation.AgentIDs),
		stringList(consultation.Symptoms),
		consultation.Notes,
		string(consultation.Status),
	).Scan(&consultation.ID, &consultation.CreatedAt, &consultation.UpdatedAt)

	if err != nil {
		return fmt.Errorf("creating consultation: %w", err)
	}

	return nil
}

func (c *consultationsRepository) GetByID(ctx context.Context, id string) (*domain.Consultation, error) {
	query := `
		SELECT ` + consultationColumns + `
		FROM consultations
		WHERE id = $1
	`

	consultation, err := scanConsultation(c.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching consultation by id: %w", err)
	}

	return consultation, nil
}

func (c *consultationsRepository) List(ctx context.Context) ([]domain.Consultation, error) {
	query := `
		SELECT ` + consultationColumns + `
		FROM consultations
		ORDER BY created_at DESC
	`

	return c.queryConsultations(ctx, query)
}

func (c *consultationsRepository) ListByPatient(ctx context.Context, patientID string) ([]domain.Consultation, error) {
	query := `
		SELECT ` + consultationColumns + `
		FROM consultations
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`

	return c.queryConsultations(ctx, query, patientID)
}

// Complete records the outcome of a consultation and moves it to the
// completed status.
func (c *consultationsRepository) Complete(ctx context.Context, id, diagnosis string, recommendations []string, notes string) error {
	const query = `
		UPDATE consultations
		SET diagnosis = $2, recommendations = $3, notes = $4, status = $5, updated_at = now()
		WHERE id = $1
	`

	result, err := c.db.ExecContext(ctx, query, id, diagnosis, stringList(recommendations), notes, string(domain.ConsultationCompleted))
	if err != nil {
		return fmt.Errorf("completing consultation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (c *consultationsRepository) SetStatus(ctx context.Context, id string, status domain.ConsultationStatus) error {
	const query = `
		UPDATE consultations
		SET status = $2, updated_at = now()
		WHERE id = $1
	`

	result, err := c.db.ExecContext(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("updating consultation status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (c *consultationsRepository) queryConsultations(ctx context.Context, query string, args ...any) ([]domain.Consultation, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing consultations: %w", err)
	}
	defer rows.Close()

	var consultations []domain.Consultation
	for rows.Next() {
		consultation, err := scanConsultation(rows)
		if err != nil {
			return nil, err
		}
		consultations = append(consultations, *consultation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating consultations: %w", err)
	}

	return consultations, nil
}

func scanConsultation(row rowScanner) (*domain.Consultation, error) {
	var consultation domain.Consultation
	var agentIDs, symptoms, recommendations stringList
	var status string
	err := row.Scan(
		&consultation.ID,
		&consultation.PatientID,
		&consultation.DoctorID,
		&consultation.ConversationID,
		&agentIDs,
		&symptoms,
		&consultation.Diagnosis,
		&recommendations,
		&consultation.Notes,
		&status,
		&consultation.CreatedAt,
		&consultation.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scanning consultation: %w", err)
	}

	consultation.AgentIDs = agentIDs
	consultation.Symptoms = symptoms
	consultation.Recommendations = recommendations
	consultation.Status = domain.ConsultationStatus(status)

	return &consultation, nil
}
