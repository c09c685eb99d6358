package discord

import (
	"fmt"
	"strconv"
	"time"

	"seminar-reminder/internal/model"
	"seminar-reminder/internal/notify"
)

type message struct {
	Content         string          `json:"content,omitempty"`
	Embeds          []embed         `json:"embeds"`
	AllowedMentions *allowedMentions `json:"allowed_mentions,omitempty"`
}

type allowedMentions struct {
	Parse []string `json:"parse"`
}

type embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields,omitempty"`
	Footer      *embedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type messageResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Message    string  `json:"message"`
	Code       int     `json:"code"`
	RetryAfter float64 `json:"retry_after"`
}

func seminarEmbed(a model.Announcement) embed {
	s := a.Seminar
	e := embed{
		Title:  notify.Clip(s.DisplayTitle(), maxTitle),
		URL:    s.URL,
		Color:  colorBlurple,
		Footer: &embedFooter{Text: footerText},
	}
	if reg := s.RegistrationURL(); reg != "" {
		e.URL = reg
	}

	e.Fields = appendField(e.Fields, "Bedrijf", s.Company, true)
	e.Fields = appendField(e.Fields, "Specialisatie", s.Specialisation, true)
	e.Fields = appendField(e.Fields, "Wanneer", s.When, false)
	e.Fields = appendField(e.Fields, "Locatie", s.Location, false)
	if s.When == "" && s.Location == "" {
		e.Fields = appendField(e.Fields, "Praktisch", s.Practical, false)
	}

	if a.RegistrationAvailable {
		e.Description = "**Inschrijven is open!** Klik op de titel om te registreren."
	} else {
		e.Description = "**Inschrijven-link gevonden, maar** de registratiepagina is niet beschikbaar of gesloten. Geen ping."
		e.Color = colorWarning
	}
	return e
}

func appendField(fields []embedField, name, value string, inline bool) []embedField {
	if value == "" {
		return fields
	}
	return append(fields, embedField{Name: name, Value: notify.Clip(value, maxFieldValue), Inline: inline})
}

func statusEmbed(s model.RunSummary) embed {
	e := embed{
		Title: "PXL Seminar Reminder Status",
		Color: colorBlurple,
		Fields: []embedField{
			{Name: "Seminaries on list", Value: strconv.Itoa(s.SeminarsListed), Inline: true},
			{Name: "Open for registration", Value: strconv.Itoa(s.OpenForRegistration), Inline: true},
			{Name: "Total notified (all time)", Value: strconv.FormatInt(s.TotalNotified, 10), Inline: true},
			{Name: "New this run", Value: strconv.Itoa(s.NewThisRun), Inline: true},
		},
		Footer: &embedFooter{Text: footerText + " · Last check"},
	}
	if s.Skipped > 0 {
		e.Fields = append(e.Fields, embedField{Name: "Skipped", Value: strconv.Itoa(s.Skipped), Inline: true})
	}
	if !s.NextRunAt.IsZero() {
		e.Fields = append(e.Fields, embedField{
			Name:  "Next update",
			Value: fmt.Sprintf("%s (%s)", timestamp(s.NextRunAt, "R"), timestamp(s.NextRunAt, "f")),
		})
	}
	if !s.CheckedAt.IsZero() {
		e.Timestamp = s.CheckedAt.UTC().Format(time.RFC3339)
	}
	return e
}

// timestamp renders a Discord timestamp markup; style R is relative, f short date/time.
func timestamp(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}
