package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeminarID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://pxl-digital.pxl.be/i-talent/seminarie-ibm", "https://pxl-digital.pxl.be/i-talent/seminarie-ibm"},
		{"https://pxl-digital.pxl.be/i-talent/seminarie-ibm/", "https://pxl-digital.pxl.be/i-talent/seminarie-ibm"},
		{"https://pxl-digital.pxl.be/i-talent/seminarie-ibm?utm=x", "https://pxl-digital.pxl.be/i-talent/seminarie-ibm"},
		{"https://PXL-Digital.pxl.be/i-talent/seminarie-ibm#top", "https://pxl-digital.pxl.be/i-talent/seminarie-ibm"},
		{"/i-talent/seminarie-ibm/?a=b", "/i-talent/seminarie-ibm"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SeminarID(tt.in))
		})
	}

	assert.NotEqual(t,
		SeminarID("https://pxl-digital.pxl.be/i-talent/seminarie-ibm"),
		SeminarID("https://pxl-digital.pxl.be/i-talent/seminarie-cegeka"))
}

func TestDeriveYear(t *testing.T) {
	date := time.Date(2026, time.March, 24, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 2026, DeriveYear(date, "24 maart 2025", "/event/x-2024-02-25-1/register"))
	assert.Equal(t, 2025, DeriveYear(time.Time{}, "Campus 2025, lokaal B", "/event/x-2024-02-25-1/register"))
	assert.Equal(t, 2024, DeriveYear(time.Time{}, "Campus Elfde Linie", "/event/seminarie-2024-02-25-12/register"))
	assert.Equal(t, 0, DeriveYear(time.Time{}, "", "#"))
}

func TestRegistrationURL(t *testing.T) {
	s := Seminar{URL: "https://pxl-digital.pxl.be/i-talent/seminarie-ibm", RegistrationHref: "/event/ibm-2026-03-24-7/register"}
	assert.Equal(t, "https://pxl-digital.pxl.be/event/ibm-2026-03-24-7/register", s.RegistrationURL())

	s.RegistrationHref = "https://events.example.com/r/1"
	assert.Equal(t, "https://events.example.com/r/1", s.RegistrationURL())

	s.RegistrationHref = "#"
	assert.Empty(t, s.RegistrationURL())
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "Seminar", Seminar{}.DisplayTitle())
	assert.Equal(t, "Seminarie: IBM", Seminar{Title: "Seminarie: IBM"}.DisplayTitle())
	assert.Equal(t, "Seminarie: IBM: Quantum", Seminar{Title: "Seminarie: IBM", Subtitle: "Quantum"}.DisplayTitle())
}
