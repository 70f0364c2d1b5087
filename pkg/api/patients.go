package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *domain.Patient) error
	Update(ctx context.Context, patient *domain.Patient) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Patient, error)
	List(ctx context.Context) ([]domain.Patient, error)
	Search(ctx context.Context, term string) ([]domain.Patient, error)
}

type patientHandler struct {
	repo PatientRepository
}

func NewPatientHandler(repo PatientRepository) *patientHandler {
	return &patientHandler{repo: repo}
}

const dateFormat = "2006-01-02"

type patientRequest struct {
	FirstName      string   `json:"firstName" binding:"required"`
	LastName       string   `json:"lastName" binding:"required"`
	DateOfBirth    string   `json:"dateOfBirth"`
	Gender         string   `json:"gender"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Address        string   `json:"address"`
	MedicalHistory string   `json:"medicalHistory"`
	Conditions     []string `json:"conditions"`
	Medications    []string `json:"medications"`
	Allergies      []string `json:"allergies"`
	LastVisit      string   `json:"lastVisit"`
}

func (r patientRequest) toPatient() (*domain.Patient, error) {
	patient := &domain.Patient{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Gender:         r.Gender,
		Email:          r.Email,
		Phone:          r.Phone,
		Address:        r.Address,
		MedicalHistory: r.MedicalHistory,
		Conditions:     r.Conditions,
		Medications:    r.Medications,
		Allergies:      r.Allergies,
	}

	if r.DateOfBirth != "" {
		dob, err := time.Parse(dateFormat, r.DateOfBirth)
		if err != nil {
			return nil, err
		}
		patient.DateOfBirth = &dob
	}
	if r.LastVisit != "" {
		visit, err := time.Parse(dateFormat, r.LastVisit)
		if err != nil {
			return nil, err
		}
		patient.LastVisit = &visit
	}

	return patient, nil
}

func (h *patientHandler) Create(c *gin.Context) {
	var req patientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient, err := req.toPatient()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.Create(c.Request.Context(), patient); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toPatientResponse(patient))
}

func (h *patientHandler) Update(c *gin.Context) {
	var req patientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient, err := req.toPatient()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patient.ID = c.Param("id")

	if err := h.repo.Update(c.Request.Context(), patient); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "patient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toPatientResponse(patient))
}

func (h *patientHandler) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "patient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *patientHandler) Get(c *gin.Context) {
	patient, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "patient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toPatientResponse(patient))
}

func (h *patientHandler) List(c *gin.Context) {
	var (
		patients []domain.Patient
		err      error
	)
	if term := c.Query("q"); term != "" {
		patients, err = h.repo.Search(c.Request.Context(), term)
	} else {
		patients, err = h.repo.List(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]patientResponse, 0, len(patients))
	for i := range patients {
		out = append(out, toPatientResponse(&patients[i]))
	}
	c.JSON(http.StatusOK, out)
}

type patientResponse struct {
	ID             string   `json:"id"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	DateOfBirth    *string  `json:"dateOfBirth"`
	Gender         string   `json:"gender"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Address        string   `json:"address"`
	MedicalHistory string   `json:"medicalHistory"`
	Conditions     []string `json:"conditions"`
	Medications    []string `json:"medications"`
	Allergies      []string `json:"allergies"`
	LastVisit      *string  `json:"lastVisit"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

func toPatientResponse(patient *domain.Patient) patientResponse {
	formatDate := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		s := t.Format(dateFormat)
		return &s
	}

	return patientResponse{
		ID:             patient.ID,
		FirstName:      patient.FirstName,
		LastName:       patient.LastName,
		DateOfBirth:    formatDate(patient.DateOfBirth),
		Gender:         patient.Gender,
		Email:          patient.Email,
		Phone:          patient.Phone,
		Address:        patient.Address,
		MedicalHistory: patient.MedicalHistory,
		Conditions:     patient.Conditions,
		Medications:    patient.Medications,
		Allergies:      patient.Allergies,
		LastVisit:      formatDate(patient.LastVisit),
		CreatedAt:      patient.CreatedAt.Format(timeFormat),
		UpdatedAt:      patient.UpdatedAt.Format(timeFormat),
	}
}
