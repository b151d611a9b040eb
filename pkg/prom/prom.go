package prom

import (
	"errors"
	"sync"
	"time"

	xhttp "github.com/nimasrn/finance-ledger/pkg/http"
	"github.com/nimasrn/finance-ledger/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	SystemTransactions = "transactions"
	SystemReports      = "reports"
	SystemStore        = "store"
)
const (
	MetricTransactionsCreated = "created_total"
	MetricTransactionsDeleted = "deleted_total"
	MetricReportDuration      = "duration_seconds"
	MetricStoreErrors         = "errors_total"
	MetricStoreDuration       = "operation_duration_seconds"
)

var lockCreateMetricLock = &sync.Mutex{}
var namespace = "none"

var MetricSystemEnabled = false

var MetricCollectionCounterVec = make(map[string]*prometheus.CounterVec)
var MetricCollectionHistogramVec = make(map[string]*prometheus.HistogramVec)

var defaultLabels prometheus.Labels

// Create registers the ledger metrics. Until it is called every Add*/Inc*
// helper is a no-op.
func Create(host string, env string, nameSpace string) error {
	defaultLabels = make(prometheus.Labels)
	defaultLabels["env"] = env
	defaultLabels["instance"] = host
	namespace = nameSpace
	MetricSystemEnabled = true

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	hasError(createCounterVec(SystemTransactions, MetricTransactionsCreated, []string{"type"}))
	hasError(createCounterVec(SystemTransactions, MetricTransactionsDeleted, []string{"outcome"}))
	hasError(createHistogramVec(SystemReports, MetricReportDuration, []string{"report"}))
	hasError(createCounterVec(SystemStore, MetricStoreErrors, []string{"op"}))
	hasError(createHistogramVec(SystemStore, MetricStoreDuration, []string{"op"}))

	return err
}

// Handler exposes the default registry as a fasthttp handler.
func Handler() xhttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
}

func ListenAndServer(addr string, url string) {
	s := xhttp.CreateServer()
	s.GET(url, Handler())
	logger.Info("[metrics-server] listening...", "addr", addr, "url", url)
	if err := s.ListenAndServe(addr); err != nil {
		logger.Error("[metrics-server] http listen error", "error", err)
	}
}

// register adds c to the default registry, returning the already
// registered collector when an identical one exists.
func register[T prometheus.Collector](c T) (T, error) {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func createCounterVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	c, err := register(prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        subsystem + " " + name,
		ConstLabels: defaultLabels,
	}, labels))
	MetricCollectionCounterVec[subsystem+name] = c
	return err
}

func createHistogramVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	h, err := register(prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        subsystem + " " + name,
		ConstLabels: defaultLabels,
		Buckets:     prometheus.DefBuckets,
	}, labels))
	MetricCollectionHistogramVec[subsystem+name] = h
	return err
}

func AddCounterVec(subsystem, name string, num float64, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionCounterVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Add(num)
		return
	}
	logger.Warn("[metrics-server] counter vec not found", "subsystem", subsystem, "name", name)
}

func IncCounterVec(subsystem, name string, labelValues ...string) {
	AddCounterVec(subsystem, name, 1, labelValues...)
}

func AddHistogramVec(subsystem, name string, number float64, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionHistogramVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Observe(number)
		return
	}
	logger.Warn("[metrics-server] histogram vec not found", "subsystem", subsystem, "name", name)
}

func IncTransactionCreated(txType string) {
	IncCounterVec(SystemTransactions, MetricTransactionsCreated, txType)
}

func IncTransactionDeleted(outcome string) {
	IncCounterVec(SystemTransactions, MetricTransactionsDeleted, outcome)
}

func ObserveReportDuration(report string, seconds float64) {
	AddHistogramVec(SystemReports, MetricReportDuration, seconds, report)
}

func IncStoreError(op string) {
	IncCounterVec(SystemStore, MetricStoreErrors, op)
}

// ObserveStoreDuration records the time since start for a store operation.
// Meant to be deferred with time.Now() as start.
func ObserveStoreDuration(op string, start time.Time) {
	AddHistogramVec(SystemStore, MetricStoreDuration, time.Since(start).Seconds(), op)
}
