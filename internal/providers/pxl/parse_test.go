package pxl

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErr "seminar-reminder/internal/errors"
)

func loadDoc(t *testing.T, name string) *goquery.Document {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	return doc
}

func docFromString(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseListing(t *testing.T) {
	base, err := url.Parse(DefaultListURL)
	require.NoError(t, err)

	links := ParseListing(loadDoc(t, "list.html"), base)

	assert.Equal(t, []string{
		"https://pxl-digital.pxl.be/i-talent/seminarie-ibm",
		"https://pxl-digital.pxl.be/i-talent/seminarie-cegeka",
		"https://pxl-digital.pxl.be/i-talent/seminarie-ordina",
	}, links)
}

func TestParseListingDuplicatesKeepFirstOrder(t *testing.T) {
	base, _ := url.Parse("https://example.org/list")
	doc := docFromString(t, `<body>
		<a href="/b">Meer info</a>
		<a href="/a">Meer info</a>
		<a href="/b">Meer info</a>
		<a href="https://example.org/a">Meer info</a>
	</body>`)

	assert.Equal(t, []string{"https://example.org/b", "https://example.org/a"}, ParseListing(doc, base))
}

func TestParseListingSameSeminarDifferentURL(t *testing.T) {
	base, _ := url.Parse("https://example.org/list")
	doc := docFromString(t, `<body>
		<a href="/s/ibm">Meer info</a>
		<a href="/s/ibm/?utm=x">Meer info</a>
		<a href="https://EXAMPLE.org/s/ibm#details">Meer info</a>
		<a href="/s/cegeka">Meer info</a>
	</body>`)

	assert.Equal(t, []string{"https://example.org/s/ibm", "https://example.org/s/cegeka"}, ParseListing(doc, base))
}

func TestParseListingNoAnchors(t *testing.T) {
	base, _ := url.Parse("https://example.org/list")
	doc := docFromString(t, `<body><a href="/x">Contact</a><p>Binnenkort meer seminaries.</p></body>`)

	links := ParseListing(doc, base)
	assert.NotNil(t, links)
	assert.Empty(t, links)
}

func TestParseDetailOpen(t *testing.T) {
	const pageURL = "https://pxl-digital.pxl.be/i-talent/seminarie-ibm"

	s, err := ParseDetail(loadDoc(t, "detail_open.html"), pageURL)
	require.NoError(t, err)

	assert.Equal(t, pageURL, s.ID)
	assert.Equal(t, pageURL, s.URL)
	assert.Equal(t, "Seminarie: IBM", s.Title)
	assert.Equal(t, "Quantum computing in de praktijk", s.Subtitle)
	assert.Equal(t, "IBM Belgium", s.Company)
	assert.Equal(t, "AI & Software", s.Specialisation)
	assert.Equal(t, "Dinsdag 24 maart 2026 14u00 - 16u00", s.When)
	assert.Equal(t, "Campus Elfde Linie, lokaal B104", s.Location)
	assert.Equal(t, "/event/seminarie-ibm-2026-03-24-42/register", s.RegistrationHref)
	assert.Equal(t, time.Date(2026, time.March, 24, 0, 0, 0, 0, time.UTC), s.Date)
	assert.Equal(t, 2026, s.Year)
	assert.True(t, s.RegistrationOpen())
	assert.Equal(t, "https://pxl-digital.pxl.be/event/seminarie-ibm-2026-03-24-42/register", s.RegistrationURL())
}

func TestParseDetailPlaceholder(t *testing.T) {
	s, err := ParseDetail(loadDoc(t, "detail_closed.html"), "https://pxl-digital.pxl.be/i-talent/seminarie-cegeka/")
	require.NoError(t, err)

	assert.Equal(t, "https://pxl-digital.pxl.be/i-talent/seminarie-cegeka", s.ID)
	assert.Equal(t, "Cloud native bouwen", s.Subtitle)
	assert.Equal(t, "#", s.RegistrationHref)
	assert.False(t, s.RegistrationOpen())
	assert.Equal(t, "12/11/2025 om 13u", s.When)
	assert.Empty(t, s.Location)
	assert.Equal(t, 2025, s.Year)
}

func TestParseDetailRegistrationHref(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{name: "no anchor", html: `<main><h1>X</h1></main>`, want: ""},
		{name: "anchor without href", html: `<main><h1>X</h1><a>Inschrijven</a></main>`, want: ""},
		{name: "empty href", html: `<main><h1>X</h1><a href="">Inschrijven</a></main>`, want: ""},
		{name: "placeholder", html: `<main><h1>X</h1><a href="#">Inschrijven</a></main>`, want: "#"},
		{name: "other fragment kept verbatim", html: `<main><h1>X</h1><a href="#form">Inschrijven</a></main>`, want: "#form"},
		{name: "first anchor wins", html: `<main><h1>X</h1><a href="#"> Inschrijven </a><a href="/r">Inschrijven</a></main>`, want: "#"},
		{name: "label must match exactly", html: `<main><h1>X</h1><a href="/r">Inschrijven sluit vrijdag</a></main>`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseDetail(docFromString(t, tt.html), "https://example.org/s/1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.RegistrationHref)
		})
	}
}

func TestParseDetailFailSoft(t *testing.T) {
	s, err := ParseDetail(docFromString(t, `<main><h1>Seminarie: Onbekend</h1><a href="/event/x-2026-04-01-3/register">Inschrijven</a></main>`),
		"https://example.org/s/2")
	require.NoError(t, err)

	assert.Equal(t, "Seminarie: Onbekend", s.Title)
	assert.Empty(t, s.Company)
	assert.Empty(t, s.When)
	assert.True(t, s.Date.IsZero())
	assert.Equal(t, 2026, s.Year, "year falls back to the registration URL")
}

func TestParseDetailNoContent(t *testing.T) {
	_, err := ParseDetail(docFromString(t, `<html><body><p>Oeps</p></body></html>`), "https://example.org/s/3")
	require.Error(t, err)
	assert.True(t, appErr.IsParse(err))
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC), parseDate("Dinsdag 5 Mei 2026"))
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), parseDate("01.12.2025, 10u"))
	assert.True(t, parseDate("31 februari 2026").IsZero())
	assert.True(t, parseDate("binnenkort").IsZero())
}
