package model

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PlaceholderHref is the registration href the site uses before registration opens.
const PlaceholderHref = "#"

type Seminar struct {
	ID               string
	URL              string
	Title            string
	Subtitle         string
	Company          string
	Specialisation   string
	When             string
	Location         string
	Practical        string
	RegistrationHref string
	Date             time.Time
	Year             int
}

// RegistrationOpen reports whether the registration anchor points anywhere but the placeholder.
func (s Seminar) RegistrationOpen() bool {
	return s.RegistrationHref != "" && s.RegistrationHref != PlaceholderHref
}

// RegistrationURL resolves the registration href against the detail page URL.
func (s Seminar) RegistrationURL() string {
	if !s.RegistrationOpen() {
		return ""
	}
	href := strings.TrimSpace(s.RegistrationHref)
	base, err := url.Parse(s.URL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// DisplayTitle is the title shown in messages: "Title: Subtitle", or "Seminar" when nothing was parsed.
func (s Seminar) DisplayTitle() string {
	title := s.Title
	if title == "" {
		title = "Seminar"
	}
	if s.Subtitle != "" {
		title += ": " + s.Subtitle
	}
	return title
}

// SeminarID derives the stable identity of a seminar from its detail page URL.
// Query and fragment are dropped along with any trailing slash.
func SeminarID(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		trimmed := strings.TrimSpace(rawURL)
		if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
			trimmed = trimmed[:i]
		}
		return strings.TrimRight(trimmed, "/")
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + strings.TrimRight(u.EscapedPath(), "/")
}

var (
	registerURLYear = regexp.MustCompile(`-(\d{4})-\d{2}-\d{2}-`)
	plainYear       = regexp.MustCompile(`\b(20\d{2})\b`)
)

// DeriveYear picks the seminar year from the parsed date, the practical text or the
// registration URL, in that order. Zero means unknown.
func DeriveYear(date time.Time, practical, registrationHref string) int {
	if !date.IsZero() {
		return date.Year()
	}
	if m := plainYear.FindStringSubmatch(practical); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil {
			return y
		}
	}
	if m := registerURLYear.FindStringSubmatch(registrationHref); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil {
			return y
		}
	}
	return 0
}
