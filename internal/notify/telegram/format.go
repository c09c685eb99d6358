package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"

	"seminar-reminder/internal/model"
)

func formatMessage(a model.Announcement, mention string) string {
	s := a.Seminar
	var b strings.Builder

	if a.RegistrationAvailable && mention != "" {
		b.WriteString(html.EscapeString(mention))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "📢 <b>%s</b>\n", html.EscapeString(s.DisplayTitle()))
	if a.RegistrationAvailable {
		b.WriteString("✅ Inschrijven is open!\n")
	} else {
		b.WriteString("⚠️ Inschrijven-link gevonden, maar de registratiepagina is niet beschikbaar of gesloten.\n")
	}

	line(&b, "🏢 Bedrijf", s.Company)
	line(&b, "🎓 Specialisatie", s.Specialisation)
	line(&b, "🕒 Wanneer", s.When)
	line(&b, "📍 Locatie", s.Location)
	if s.When == "" && s.Location == "" {
		line(&b, "ℹ️ Praktisch", s.Practical)
	}

	link := s.RegistrationURL()
	if link == "" {
		link = s.URL
	}
	fmt.Fprintf(&b, "🔗 <a href=\"%s\">Inschrijven</a>", html.EscapeString(link))
	return b.String()
}

func line(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, html.EscapeString(value))
}

func formatStatus(s model.RunSummary) string {
	var b strings.Builder
	b.WriteString("📊 <b>PXL Seminar Reminder Status</b>\n")
	fmt.Fprintf(&b, "Seminaries on list: %d\n", s.SeminarsListed)
	fmt.Fprintf(&b, "Open for registration: %d\n", s.OpenForRegistration)
	fmt.Fprintf(&b, "Total notified (all time): %d\n", s.TotalNotified)
	fmt.Fprintf(&b, "New this run: %d\n", s.NewThisRun)
	if s.Skipped > 0 {
		fmt.Fprintf(&b, "Skipped: %d\n", s.Skipped)
	}
	if !s.CheckedAt.IsZero() {
		fmt.Fprintf(&b, "Last check: %s\n", s.CheckedAt.Format(time.DateTime+" MST"))
	}
	if !s.NextRunAt.IsZero() {
		fmt.Fprintf(&b, "Next update: %s\n", s.NextRunAt.Format(time.DateTime+" MST"))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func splitMessage(message string, limit int) []string {
	runes := []rune(message)
	if len(runes) <= limit {
		return []string{message}
	}

	parts := []string{}
	for start := 0; start < len(runes); start += limit {
		end := start + limit
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
