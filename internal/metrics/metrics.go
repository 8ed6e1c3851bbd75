// Package metrics holds the prometheus collectors of the wallet service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "web3connect"

// Service owns a private registry so tests can create as many instances as
// they need.
type Service struct {
	Registry *prometheus.Registry

	walletInit         *prometheus.CounterVec
	derivations        *prometheus.CounterVec
	derivationDuration *prometheus.HistogramVec
	storeWrites        *prometheus.CounterVec
	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

func New() *Service {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Service{
		Registry: reg,
		walletInit: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallet_init_total",
			Help:      "Wallet initializations by result kind",
		}, []string{"result"}),
		derivations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "derivations_total",
			Help:      "Wallet derivations by chain family",
		}, []string{"family"}),
		derivationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "derivation_duration_seconds",
			Help:      "Wallet derivation duration by chain family",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}, []string{"family"}),
		storeWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_writes_total",
			Help:      "Encrypted store writes by result",
		}, []string{"result"}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests",
		}, []string{"method", "path", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// ObserveInit counts a finished InitWallet, result is "ok" or an error kind.
func (s *Service) ObserveInit(result string) {
	if s == nil {
		return
	}
	s.walletInit.WithLabelValues(result).Inc()
}

// ObserveDerivation records one wallet derivation of family.
func (s *Service) ObserveDerivation(family string, took time.Duration) {
	if s == nil {
		return
	}
	s.derivations.WithLabelValues(family).Inc()
	s.derivationDuration.WithLabelValues(family).Observe(took.Seconds())
}

// ObserveStoreWrite counts a store blob write.
func (s *Service) ObserveStoreWrite(err error) {
	if s == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.storeWrites.WithLabelValues(result).Inc()
}

// Handler serves the registry in the prometheus exposition format.
func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{Registry: s.Registry})
}

// Middleware counts echo requests by route path.
func (s *Service) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			method := c.Request().Method
			s.requests.WithLabelValues(method, path, strconv.Itoa(c.Response().Status)).Inc()
			s.requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

			return nil
		}
	}
}
