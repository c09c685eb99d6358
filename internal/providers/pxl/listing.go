package pxl

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"seminar-reminder/internal/model"
)

var moreInfoLabels = []string{"meer info", "more info"}

// ParseListing returns the absolute detail page URLs linked from the listing page,
// in first-seen order. Links that resolve to the same seminar ID are kept once.
func ParseListing(doc *goquery.Document, base *url.URL) []string {
	seen := map[string]struct{}{}
	links := []string{}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if !isMoreInfo(a.Text()) {
			return
		}
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || href == "#" {
			return
		}
		abs := resolve(base, href)
		if abs == "" {
			return
		}
		id := model.SeminarID(abs)
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		links = append(links, abs)
	})

	return links
}

func isMoreInfo(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	for _, label := range moreInfoLabels {
		if strings.Contains(text, label) {
			return true
		}
	}
	return false
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
