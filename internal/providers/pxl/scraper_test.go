package pxl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErr "seminar-reminder/internal/errors"
	"seminar-reminder/internal/providers/common"
)

func serveFile(t *testing.T, name string) http.HandlerFunc {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(body)
	}
}

func newTestScraper(t *testing.T) (*PxlScraper, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/list", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<main><a href="/s/ibm">Meer info</a><a href="s/cegeka">Meer info</a></main>`))
	})
	mux.HandleFunc("/s/ibm", serveFile(t, "detail_open.html"))
	mux.HandleFunc("/s/cegeka", serveFile(t, "detail_closed.html"))
	mux.HandleFunc("/register/open", serveFile(t, "register_open.html"))
	mux.HandleFunc("/register/closed", serveFile(t, "register_closed.html"))
	mux.HandleFunc("/register/failed", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<h1>Webapplicatie niet beschikbaar</h1>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	fetcher := common.NewFetcher(srv.Client(), "", time.Second)
	return NewScraper(fetcher, srv.URL+"/list"), srv
}

func TestScraperListSeminars(t *testing.T) {
	s, srv := newTestScraper(t)

	links, err := s.ListSeminars(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/s/ibm", srv.URL + "/s/cegeka"}, links)
}

func TestScraperListSeminarsFetchError(t *testing.T) {
	_, srv := newTestScraper(t)
	s := NewScraper(common.NewFetcher(srv.Client(), "", time.Second), srv.URL+"/does-not-exist")

	_, err := s.ListSeminars(context.Background())
	require.Error(t, err)
	assert.True(t, appErr.IsTransport(err))
}

func TestScraperFetchSeminar(t *testing.T) {
	s, srv := newTestScraper(t)

	seminar, err := s.FetchSeminar(context.Background(), srv.URL+"/s/ibm")
	require.NoError(t, err)
	assert.Equal(t, "Seminarie: IBM", seminar.Title)
	assert.Equal(t, srv.URL+"/event/seminarie-ibm-2026-03-24-42/register", seminar.RegistrationURL())
}

func TestScraperRegistrationAvailable(t *testing.T) {
	s, srv := newTestScraper(t)
	ctx := context.Background()

	assert.True(t, s.RegistrationAvailable(ctx, srv.URL+"/register/open"))
	assert.False(t, s.RegistrationAvailable(ctx, srv.URL+"/register/closed"))
	assert.False(t, s.RegistrationAvailable(ctx, srv.URL+"/register/failed"))
	assert.False(t, s.RegistrationAvailable(ctx, srv.URL+"/register/missing"))
}
