package pxl

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"seminar-reminder/internal/model"
	"seminar-reminder/internal/providers/common"
)

const (
	BaseURL        = "https://pxl-digital.pxl.be"
	DefaultListURL = BaseURL + "/i-talent/seminaries-2tin-25-26"
)

type PxlScraper struct {
	fetcher *common.Fetcher
	listURL string
}

func NewScraper(fetcher *common.Fetcher, listURL string) *PxlScraper {
	if listURL == "" {
		listURL = DefaultListURL
	}
	return &PxlScraper{fetcher: fetcher, listURL: listURL}
}

func (p *PxlScraper) Source() string {
	return "pxl"
}

func (p *PxlScraper) ListSeminars(ctx context.Context) ([]string, error) {
	doc, err := p.fetcher.Fetch(ctx, p.listURL)
	if err != nil {
		return nil, fmt.Errorf("fetch seminar list: %w", err)
	}

	base := doc.Url
	if base == nil {
		base, _ = url.Parse(p.listURL)
	}
	links := ParseListing(doc, base)
	log.Debug().Str("source", p.Source()).Int("links", len(links)).Str("url", p.listURL).Msg("listing parsed")
	return links, nil
}

func (p *PxlScraper) FetchSeminar(ctx context.Context, detailURL string) (model.Seminar, error) {
	doc, err := p.fetcher.Fetch(ctx, detailURL)
	if err != nil {
		return model.Seminar{}, err
	}
	return ParseDetail(doc, detailURL)
}

// RegistrationAvailable probes the registration page. Pages reporting that the web
// application is unavailable or that registrations are closed count as unavailable,
// as does any fetch failure.
func (p *PxlScraper) RegistrationAvailable(ctx context.Context, registerURL string) bool {
	doc, err := p.fetcher.Fetch(ctx, registerURL)
	if err != nil {
		log.Debug().Str("source", p.Source()).Err(err).Str("url", registerURL).Msg("register page fetch failed")
		return false
	}

	text := strings.ToLower(doc.Text())
	switch {
	case strings.Contains(text, "niet beschikbaar"),
		strings.Contains(text, "not available") && strings.Contains(text, "web application"):
		log.Info().Str("source", p.Source()).Str("url", registerURL).Msg("register page not available")
		return false
	case strings.Contains(text, "registraties") && strings.Contains(text, "gesloten"):
		log.Info().Str("source", p.Source()).Str("url", registerURL).Msg("register page shows registrations closed")
		return false
	}
	return true
}
