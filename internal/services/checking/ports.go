package checking

import (
	"context"

	"seminar-reminder/internal/model"
)

type SeminarSource interface {
	Source() string
	ListSeminars(ctx context.Context) ([]string, error)
	FetchSeminar(ctx context.Context, detailURL string) (model.Seminar, error)
}

// RegistrationProbe is implemented by sources that can check whether a
// registration page actually accepts registrations.
type RegistrationProbe interface {
	RegistrationAvailable(ctx context.Context, registerURL string) bool
}

type Notifier interface {
	SendSeminar(ctx context.Context, announcement model.Announcement) error
	// PublishStatus creates or edits the status message identified by ref and
	// returns the reference of the message now showing the summary.
	PublishStatus(ctx context.Context, ref string, summary model.RunSummary) (string, error)
}
