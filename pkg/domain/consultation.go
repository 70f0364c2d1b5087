package domain

import (
	"fmt"
	"time"
)

type ConsultationStatus string

const (
	ConsultationInProgress ConsultationStatus = "in-progress"
	ConsultationCompleted  ConsultationStatus = "completed"
	ConsultationCancelled  ConsultationStatus = "cancelled"
)

func ParseConsultationStatus(s string) (ConsultationStatus, error) {
	switch ConsultationStatus(s) {
	case ConsultationInProgress, ConsultationCompleted, ConsultationCancelled:
		return ConsultationStatus(s), nil
	}
	return "", fmt.Errorf("unknown consultation status %q", s)
}

type Consultation struct {
	ID              string
	PatientID       string
	DoctorID        string
	ConversationID  string
	AgentIDs        []string
	Symptoms        []string
	Diagnosis       string
	Recommendations []string
	Notes           string
	Status          ConsultationStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
