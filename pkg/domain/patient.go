package domain

import (
	"strconv"
	"time"
)

type Patient struct {
	ID             string
	FirstName      string
	LastName       string
	DateOfBirth    *time.Time
	Gender         string
	Email          string
	Phone          string
	Address        string
	MedicalHistory string
	Conditions     []string
	Medications    []string
	Allergies      []string
	LastVisit      *time.Time
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Age returns the patient's age in whole years, or "Unknown" when the date
// of birth is not recorded.
func (p Patient) Age(now time.Time) string {
	if p.DateOfBirth == nil {
		return "Unknown"
	}
	dob := *p.DateOfBirth
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return strconv.Itoa(age)
}
