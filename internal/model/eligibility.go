package model

// IsEligible reports whether a seminar should be announced: registration must be open
// and the seminar must take place in the current year.
func IsEligible(s Seminar, currentYear int) bool {
	return s.RegistrationOpen() && s.Year == currentYear
}
