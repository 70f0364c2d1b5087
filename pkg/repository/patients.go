package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
)

type patientsRepository struct {
	db *sql.DB
}

func NewPatientsRepository(db *sql.DB) *patientsRepository {
	return &patientsRepository{db: db}
}

const patientColumns = `id, first_name, last_name, date_of_birth, gender, email, phone, address,
		medical_history, conditions, medications, allergies, last_visit, created_by, created_at, updated_at`

func (p *patientsRepository) Create(ctx context.Context, patient *domain.Patient) error {
	const query = `
		INSERT INTO patients (first_name, last_name, date_of_birth, gender, email, phone, address,
			medical_history, conditions, medications, allergies, last_visit, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	err := p.db.QueryRowContext(ctx, query,
		patient.FirstName,
		patient.LastName,
		patient.DateOfBirth,
		patient.Gender,
		patient.Email,
		patient.Phone,
		patient.Address,
		patient.MedicalHistory,
		stringList(patient.Conditions),
		stringList(patient.Medications),
		stringList(patient.Allergies),
		patient.LastVisit,
		patient.CreatedBy,
	).Scan(&patient.ID, &patient.CreatedAt, &patient.UpdatedAt)

	if err != nil {
		return fmt.Errorf("creating patient: %w", err)
	}

	return nil
}

func (p *patientsRepository) Update(ctx context.Context, patient *domain.Patient) error {
	const query = `
		UPDATE patients
		SET first_name = $2, last_name = $3, date_of_birth = $4, gender = $5, email = $6,
			phone = $7, address = $8, medical_history = $9, conditions = $10,
			medications = $11, allergies = $12, last_visit = $13, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := p.db.QueryRowContext(ctx, query,
		patient.ID,
		patient.FirstName,
		patient.LastName,
		patient.DateOfBirth,
		patient.Gender,
		patient.Email,
		patient.Phone,
		patient.Address,
		patient.MedicalHistory,
		stringList(patient.Conditions),
		stringList(patient.Medications),
		stringList(patient.Allergies),
		patient.LastVisit,
	).Scan(&patient.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("updating patient: %w", err)
	}

	return nil
}

func (p *patientsRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM patients WHERE id = $1`

	result, err := p.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting patient: %w", err)
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

func (p *patientsRepository) GetByID(ctx context.Context, id string) (*domain.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patients
		WHERE id = $1
	`

	patient, err := scanPatient(p.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching patient by id: %w", err)
	}

	return patient, nil
}

func (p *patientsRepository) List(ctx context.Context) ([]domain.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patients
		ORDER BY last_name, first_name
	`

	return p.queryPatients(ctx, query)
}

// Search matches the query against first and last names, case-insensitively.
func (p *patientsRepository) Search(ctx context.Context, term string) ([]domain.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patients
		WHERE first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%'
		ORDER BY last_name, first_name
	`

	return p.queryPatients(ctx, query, term)
}

func (p *patientsRepository) queryPatients(ctx context.Context, query string, args ...any) ([]domain.Patient, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	defer rows.Close()

	var patients []domain.Patient
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, *patient)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating patients: %w", err)
	}

	return patients, nil
}

func scanPatient(row rowScanner) (*domain.Patient, error) {
	var patient domain.Patient
	var conditions, medications, allergies stringList
	err := row.Scan(
		&patient.ID,
		&patient.FirstName,
		&patient.LastName,
		&patient.DateOfBirth,
		&patient.Gender,
		&patient.Email,
		&patient.Phone,
		&patient.Address,
		&patient.MedicalHistory,
		&conditions,
		&medications,
		&allergies,
		&patient.LastVisit,
		&patient.CreatedBy,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scanning patient: %w", err)
	}

	patient.Conditions = conditions
	patient.Medications = medications
	patient.Allergies = allergies

	return &patient, nil
}
