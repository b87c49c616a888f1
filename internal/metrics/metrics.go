package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crypto-universe/internal/types"
)

// Registry holds the Prometheus metrics for universe selection
type Registry struct {
	reg *prometheus.Registry

	SelectTotal     prometheus.Counter
	RecordsIn       prometheus.Counter
	SymbolsSelected prometheus.Gauge
	SelectDuration  prometheus.Histogram
	Changes         *prometheus.CounterVec
}

// NewRegistry creates the metrics on a private prometheus registry
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		SelectTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "universe_select_total",
			Help: "Number of universe selections performed",
		}),
		RecordsIn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "universe_records_in_total",
			Help: "Fundamental records offered to the selector",
		}),
		SymbolsSelected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "universe_symbols_selected",
			Help: "Symbols returned by the most recent selection",
		}),
		SelectDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "universe_select_duration_seconds",
			Help:    "Duration of one universe selection in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}),
		Changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "universe_changes_total",
			Help: "Securities added to or removed from the universe",
		}, []string{"kind"}),
	}

	r.reg.MustRegister(r.SelectTotal, r.RecordsIn, r.SymbolsSelected, r.SelectDuration, r.Changes)
	return r
}

func (r *Registry) ObserveSelection(records, selected int, d time.Duration) {
	r.SelectTotal.Inc()
	r.RecordsIn.Add(float64(records))
	r.SymbolsSelected.Set(float64(selected))
	r.SelectDuration.Observe(d.Seconds())
}

func (r *Registry) ObserveChanges(c types.SecurityChanges) {
	r.Changes.WithLabelValues("added").Add(float64(len(c.Added)))
	r.Changes.WithLabelValues("removed").Add(float64(len(c.Removed)))
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
