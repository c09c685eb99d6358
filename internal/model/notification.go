package model

import "time"

type NotificationRecord struct {
	SeminarID  string    `json:"seminar_id"`
	SeminarURL string    `json:"seminar_url"`
	Title      string    `json:"title"`
	NotifiedAt time.Time `json:"notified_at"`
}

// Announcement is what a notifier receives for one newly open seminar.
type Announcement struct {
	Seminar Seminar
	// RegistrationAvailable is false when the registration page itself reports
	// it is unavailable or closed; notifiers then skip the mention.
	RegistrationAvailable bool
}

type RunSummary struct {
	RunID               string    `json:"run_id"`
	SeminarsListed      int       `json:"seminars_listed"`
	OpenForRegistration int       `json:"open_for_registration"`
	TotalNotified       int64     `json:"total_notified"`
	NewThisRun          int       `json:"new_this_run"`
	Skipped             int       `json:"skipped"`
	CheckedAt           time.Time `json:"checked_at"`
	NextRunAt           time.Time `json:"next_run_at,omitempty"`
}
