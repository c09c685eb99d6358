package pxl

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	appErr "seminar-reminder/internal/errors"
	"seminar-reminder/internal/model"
	"seminar-reminder/internal/providers/common"
)

var registerLabels = []string{"inschrijven", "register"}

var dutchMonths = map[string]time.Month{
	"januari":   time.January,
	"februari":  time.February,
	"maart":     time.March,
	"april":     time.April,
	"mei":       time.May,
	"juni":      time.June,
	"juli":      time.July,
	"augustus":  time.August,
	"september": time.September,
	"oktober":   time.October,
	"november":  time.November,
	"december":  time.December,
}

var (
	dutchDate   = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(januari|februari|maart|april|mei|juni|juli|augustus|september|oktober|november|december)\s+(\d{4})\b`)
	numericDate = regexp.MustCompile(`\b(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})\b`)
	clockTime   = regexp.MustCompile(`(?i)\b\d{1,2}\s?(u|h|:)\s?\d{0,2}\b`)
	weekday     = regexp.MustCompile(`(?i)\b(maandag|dinsdag|woensdag|donderdag|vrijdag|zaterdag|zondag)\b`)
)

// ParseDetail extracts a seminar from its detail page. Only a page without any
// recognisable seminar content is an error; missing fields are left empty.
func ParseDetail(doc *goquery.Document, pageURL string) (model.Seminar, error) {
	main := doc.Find("main").First()
	if main.Length() == 0 {
		if doc.Find("h1").Length() == 0 {
			return model.Seminar{}, appErr.NewParse("no seminar content on %s", pageURL)
		}
		main = doc.Selection
	}

	seminar := model.Seminar{
		ID:  model.SeminarID(pageURL),
		URL: pageURL,
	}

	seminar.Title = common.SelectionText(main.Find("h1"))
	seminar.Subtitle = parseSubtitle(main.Find("p.lead").First())
	seminar.RegistrationHref = registrationHref(doc)

	features := parseFeatures(main)
	seminar.Company = features.text("bedrijf")
	seminar.Specialisation = features.text("specialisatie")
	seminar.Practical = features.text("praktisch")
	seminar.Location = common.FirstNonEmpty(features.text("locatie"), features.text("plaats"))
	seminar.When = common.FirstNonEmpty(features.text("datum"), features.text("wanneer"))

	if lines := features["praktisch"]; len(lines) > 0 {
		when, where := splitPractical(lines)
		seminar.When = common.FirstNonEmpty(seminar.When, when)
		seminar.Location = common.FirstNonEmpty(seminar.Location, where)
	}

	seminar.Date = parseDate(common.FirstNonEmpty(seminar.When, seminar.Practical))
	seminar.Year = model.DeriveYear(seminar.Date, seminar.Practical, seminar.RegistrationHref)
	return seminar, nil
}

func parseSubtitle(lead *goquery.Selection) string {
	if lead.Length() == 0 {
		return ""
	}
	subtitle := ""
	lead.Find("font").EachWithBreak(func(_ int, f *goquery.Selection) bool {
		subtitle = common.CleanText(f.Text())
		return subtitle == ""
	})
	if subtitle == "" {
		subtitle = common.CleanText(lead.Text())
	}
	return subtitle
}

// registrationHref returns the raw href of the first registration anchor. An anchor
// without href yields "", the same as no anchor at all.
func registrationHref(doc *goquery.Document) string {
	href := ""
	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		label := strings.ToLower(strings.TrimSpace(a.Text()))
		for _, want := range registerLabels {
			if label == want {
				href = a.AttrOr("href", "")
				return false
			}
		}
		return true
	})
	return href
}

// featureSet maps a lower-cased feature label to the text lines of its value.
type featureSet map[string][]string

func (f featureSet) text(label string) string {
	return strings.Join(f[label], " ")
}

func parseFeatures(main *goquery.Selection) featureSet {
	features := featureSet{}
	main.Find(`section[class*="s_features"] div.text-center`).Each(func(_ int, div *goquery.Selection) {
		h3 := div.Find("h3").First()
		if h3.Length() == 0 {
			return
		}
		label := strings.ToLower(strings.TrimSuffix(common.CleanText(h3.Text()), ":"))
		if _, ok := features[label]; ok {
			return
		}
		features[label] = common.SplitLines(div.Find("p").First())
	})
	return features
}

// splitPractical sorts the lines of the practical block into schedule and location.
func splitPractical(lines []string) (when, where string) {
	if len(lines) == 1 {
		return lines[0], ""
	}
	var whenParts, whereParts []string
	for _, line := range lines {
		if isScheduleLine(line) {
			whenParts = append(whenParts, line)
		} else {
			whereParts = append(whereParts, line)
		}
	}
	return strings.Join(whenParts, " "), strings.Join(whereParts, ", ")
}

func isScheduleLine(line string) bool {
	return dutchDate.MatchString(line) || numericDate.MatchString(line) ||
		clockTime.MatchString(line) || weekday.MatchString(line)
}

func parseDate(text string) time.Time {
	if m := dutchDate.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		month := dutchMonths[strings.ToLower(m[2])]
		if valid(year, month, day) {
			return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		}
	}
	if m := numericDate.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if valid(year, time.Month(month), day) {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Time{}
}

func valid(year int, month time.Month, day int) bool {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return d.Day() == day
}
