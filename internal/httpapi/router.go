package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	appErr "seminar-reminder/internal/errors"
	"seminar-reminder/internal/model"
	"seminar-reminder/internal/services/checking"
)

type Checker interface {
	Run(ctx context.Context) (model.RunSummary, error)
	LastSummary() model.RunSummary
}

type History interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]model.NotificationRecord, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	service Checker
	history History
	db      Pinger
}

func NewHandler(service Checker, history History, db Pinger) *Handler {
	return &Handler{service: service, history: history, db: db}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	r.Get("/readyz", h.handleReady)
	r.Get("/check", h.handleCheck)
	r.Post("/check", h.handleCheck)
	r.Get("/status", h.handleStatus)
	r.Get("/seminars/notified", h.handleNotified)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/debug/pprof", func(r chi.Router) {
		r.Get("/", pprof.Index)
		r.Get("/cmdline", pprof.Cmdline)
		r.Get("/profile", pprof.Profile)
		r.Get("/symbol", pprof.Symbol)
		r.Post("/symbol", pprof.Symbol)
		r.Get("/trace", pprof.Trace)
		r.Get("/allocs", pprof.Handler("allocs").ServeHTTP)
		r.Get("/block", pprof.Handler("block").ServeHTTP)
		r.Get("/goroutine", pprof.Handler("goroutine").ServeHTTP)
		r.Get("/heap", pprof.Handler("heap").ServeHTTP)
		r.Get("/mutex", pprof.Handler("mutex").ServeHTTP)
		r.Get("/threadcreate", pprof.Handler("threadcreate").ServeHTTP)
	})
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleCheck runs a pass synchronously. The pass is detached from the request so a
// disconnecting client does not abort it halfway.
func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Run(context.WithoutCancel(r.Context()))
	switch {
	case errors.Is(err, checking.ErrPassInProgress):
		writeJSON(w, http.StatusConflict, map[string]string{"message": err.Error()})
	case err != nil:
		log.Error().Err(err).Msg("manual check failed")
		writeJSON(w, http.StatusBadGateway, map[string]string{"message": err.Error(), "kind": appErr.Kind(err)})
	default:
		writeJSON(w, http.StatusOK, summary)
	}
}

func (h *Handler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.service.LastSummary())
}

type notifiedResponse struct {
	Count    int64                      `json:"count"`
	Seminars []model.NotificationRecord `json:"seminars"`
}

func (h *Handler) handleNotified(w http.ResponseWriter, r *http.Request) {
	records, err := h.history.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list notified seminars")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "could not read ledger"})
		return
	}
	count, err := h.history.Count(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("count notified seminars")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "could not read ledger"})
		return
	}
	writeJSON(w, http.StatusOK, notifiedResponse{Count: count, Seminars: records})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
