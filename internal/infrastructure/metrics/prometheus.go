// Package metrics expone contadores de negocio y latencias HTTP en formato Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/botilleria-pos/internal/application/ledger"
)

const namespace = "botilleria"

var _ ledger.Recorder = (*Recorder)(nil)

// Recorder registra eventos del motor de ventas/retiros y métricas HTTP en un registry propio.
type Recorder struct {
	registry *prometheus.Registry

	recorded *prometheus.CounterVec
	amount   *prometheus.CounterVec
	lines    *prometheus.HistogramVec
	rejected *prometheus.CounterVec
	requests *prometheus.HistogramVec
}

// NewRecorder crea el registry con los colectores de proceso y Go incluidos.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		recorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transacciones_total",
			Help:      "Ventas y retiros confirmados.",
		}, []string{"tipo"}),
		amount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "monto_total",
			Help:      "Suma de totales confirmados, en pesos.",
		}, []string{"tipo"}),
		lines: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lineas_por_transaccion",
			Help:      "Cantidad de líneas por venta o retiro.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}, []string{"tipo"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rechazos_total",
			Help:      "Transacciones rechazadas por motivo.",
		}, []string{"tipo", "motivo"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		r.recorded, r.amount, r.lines, r.rejected, r.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) observe(kind string, total decimal.Decimal, lines int) {
	r.recorded.WithLabelValues(kind).Inc()
	r.amount.WithLabelValues(kind).Add(total.InexactFloat64())
	r.lines.WithLabelValues(kind).Observe(float64(lines))
}

func (r *Recorder) SaleRecorded(total decimal.Decimal, lines int) {
	r.observe(ledger.KindSale, total, lines)
}

func (r *Recorder) WithdrawalRecorded(total decimal.Decimal, lines int) {
	r.observe(ledger.KindWithdrawal, total, lines)
}

func (r *Recorder) Rejected(kind, reason string) {
	r.rejected.WithLabelValues(kind, reason).Inc()
}

// ObserveRequest registra una petición HTTP. route es el patrón de la ruta, no el path concreto.
func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler handler de /metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry para tests y colectores adicionales.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }
