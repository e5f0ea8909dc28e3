// metrics/metrics.go
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var reqDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests.",
		Buckets: []float64{0.005, 0.025, 0.1, 0.5, 2},
	},
	[]string{"path", "method", "status"},
)

// Channels and outcomes for contact_drafts_total.
const (
	ChannelForm     = "form"
	ChannelAPI      = "api"
	ChannelEML      = "eml"
	ChannelWaitlist = "waitlist"

	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

var contactDrafts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "contact_drafts_total",
		Help: "Contact submissions handled, by entry point and result.",
	},
	[]string{"channel", "outcome"},
)

// RegisterDefault registers runtime, process, HTTP and contact collectors
// with the default registry. Calling it twice is harmless.
func RegisterDefault(logger *zap.Logger) {
	register(logger, "go collector", collectors.NewGoCollector())
	register(logger, "process collector", collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	register(logger, "http histogram", reqDuration)
	register(logger, "contact counter", contactDrafts)
}

func register(logger *zap.Logger, name string, c prometheus.Collector) {
	err := prometheus.Register(c)
	var already prometheus.AlreadyRegisteredError
	if err == nil || errors.As(err, &already) {
		return
	}
	if logger == nil {
		panic("metrics: register " + name + ": " + err.Error())
	}
	logger.Fatal("metrics registration failed", zap.String("collector", name), zap.Error(err))
}

// ContactDraft counts one handled submission.
func ContactDraft(channel, outcome string) {
	contactDrafts.WithLabelValues(channel, outcome).Inc()
}

const maxPathLabel = 128

// HTTPMetrics observes request latency labeled by chi route pattern so that
// query strings and unknown paths do not grow the label set.
func HTTPMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, max(r.ProtoMajor, 1))

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		if status < 100 || status > 599 {
			status = http.StatusInternalServerError
		}
		reqDuration.WithLabelValues(routeLabel(r), r.Method, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}

func routeLabel(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return truncateUTF8(r.URL.Path, maxPathLabel)
	}
	if p := rctx.RoutePattern(); p != "" {
		return truncateUTF8(p, maxPathLabel)
	}
	return "unmatched"
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// truncateUTF8 cuts s to at most n bytes on a rune boundary.
func truncateUTF8(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
