package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEligible(t *testing.T) {
	const year = 2026

	tests := []struct {
		name    string
		seminar Seminar
		want    bool
	}{
		{name: "placeholder href", seminar: Seminar{RegistrationHref: "#", Year: year}, want: false},
		{name: "empty href", seminar: Seminar{RegistrationHref: "", Year: year}, want: false},
		{name: "placeholder href other year", seminar: Seminar{RegistrationHref: "#", Year: year - 1}, want: false},
		{name: "open href last year", seminar: Seminar{RegistrationHref: "https://x/register/42", Year: year - 1}, want: false},
		{name: "open href next year", seminar: Seminar{RegistrationHref: "https://x/register/42", Year: year + 1}, want: false},
		{name: "open href unknown year", seminar: Seminar{RegistrationHref: "https://x/register/42"}, want: false},
		{name: "open href this year", seminar: Seminar{RegistrationHref: "https://x/register/42", Year: year}, want: true},
		{name: "other fragment counts as open", seminar: Seminar{RegistrationHref: "#register", Year: year}, want: true},
		{name: "relative href", seminar: Seminar{RegistrationHref: "/event/x/register", Year: year}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEligible(tt.seminar, year))
		})
	}
}

func TestIsEligiblePlaceholderNeverEligible(t *testing.T) {
	for y := 2000; y <= 2100; y++ {
		for _, href := range []string{"", "#"} {
			s := Seminar{RegistrationHref: href, Year: y}
			assert.False(t, IsEligible(s, y), "href %q year %d", href, y)
		}
	}
}
