package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PassTotal counts check passes by result (ok, failed, busy).
	PassTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seminar_check_passes_total",
			Help: "Number of seminar check passes by result",
		},
		[]string{"result"},
	)

	PassDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "seminar_check_pass_duration_seconds",
			Help:    "Duration of a full seminar check pass",
			Buckets: prometheus.DefBuckets,
		},
	)

	// SkippedTotal counts detail pages dropped from a pass, by error kind.
	SkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seminar_items_skipped_total",
			Help: "Seminar detail pages skipped during a pass",
		},
		[]string{"kind"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seminar_notifications_total",
			Help: "Seminar notifications by result (sent, failed)",
		},
		[]string{"result"},
	)

	SeminarsListed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "seminar_listed",
		Help: "Seminars found on the listing page in the last pass",
	})

	SeminarsOpen = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "seminar_open_for_registration",
		Help: "Eligible seminars with open registration in the last pass",
	})
)

var once sync.Once

func Init() {
	once.Do(func() {
		prometheus.MustRegister(PassTotal, PassDuration, SkippedTotal, NotificationsTotal, SeminarsListed, SeminarsOpen)
	})
}
