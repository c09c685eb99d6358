package common

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanText collapses all whitespace runs into single spaces.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SelectionText is the cleaned text of the first node in sel.
func SelectionText(sel *goquery.Selection) string {
	return CleanText(sel.First().Text())
}

func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// SplitLines returns the cleaned, non-empty text lines of sel, treating <br> and
// block boundaries as line breaks.
func SplitLines(sel *goquery.Selection) []string {
	clone := sel.First().Clone()
	clone.Find("br").ReplaceWithHtml("\n")
	clone.Find("p, div, li").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	var lines []string
	for _, line := range strings.Split(clone.Text(), "\n") {
		if cleaned := CleanText(line); cleaned != "" {
			lines = append(lines, cleaned)
		}
	}
	return lines
}
