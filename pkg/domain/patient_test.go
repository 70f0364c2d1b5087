package domain

import (
	"testing"
	"time"
)

func TestPatientAge(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	date := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}

	tests := []struct {
		name string
		dob  *time.Time
		want string
	}{
		{name: "unknown", dob: nil, want: "Unknown"},
		{name: "birthday passed", dob: date(1980, time.March, 15), want: "44"},
		{name: "birthday today", dob: date(1980, time.June, 15), want: "44"},
		{name: "birthday tomorrow", dob: date(1980, time.June, 16), want: "43"},
		{name: "birthday later this year", dob: date(1980, time.December, 1), want: "43"},
	}

	for _, test := range tests {
		patient := Patient{DateOfBirth: test.dob}
		if got := patient.Age(now); got != test.want {
			t.Errorf("%s: expected %s, got %s", test.name, test.want, got)
		}
	}
}
