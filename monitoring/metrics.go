package monitoring

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	reservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_total",
			Help: "Reservation attempts by outcome",
		},
		[]string{"outcome"},
	)

	reservationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reservation_duration_seconds",
			Help:    "End-to-end duration of reservation transactions",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	lockWaitSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lock_wait_seconds",
			Help:    "Time spent waiting on the event mutex",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	lockDegradedMode = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lock_degraded_mode",
			Help: "1 when the lock backend is unreachable and in-process locking is in effect",
		},
	)

	paymentRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_requests_total",
			Help: "Payment gateway calls by result",
		},
		[]string{"result"},
	)
)

// TrackReservation records one finished reservation attempt.
func TrackReservation(outcome string, duration time.Duration) {
	reservationsTotal.WithLabelValues(outcome).Inc()
	reservationDuration.Observe(duration.Seconds())
}

// TrackLockWait records how long a transaction waited for its event mutex.
func TrackLockWait(duration time.Duration) {
	lockWaitSeconds.Observe(duration.Seconds())
}

// SetDegradedMode flags whether the engine runs without a distributed lock
// backend. Running multiple instances in this mode reintroduces the
// oversell race; the gauge exists so operators can alert on it.
func SetDegradedMode(degraded bool) {
	if degraded {
		lockDegradedMode.Set(1)
		return
	}
	lockDegradedMode.Set(0)
}

// TrackPayment records one payment gateway call.
func TrackPayment(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	paymentRequests.WithLabelValues(result).Inc()
}

// StartMetricsServer exposes /metrics on its own port.
func StartMetricsServer(port string) {
	e := echo.New()
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	srv := &http.Server{Addr: ":" + port, Handler: e}
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			slog.Error("metrics server stopped", "error", err)
		}
	}()
}
