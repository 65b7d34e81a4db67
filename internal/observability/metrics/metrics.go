package metrics

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/SscSPs/credit_ledger_app/internal/apperrors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "credit_ledger_"

	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultConflict = "conflict"
	ResultError    = "error"
)

var (
	registerOnce sync.Once

	ledgerOperationsTotal  *prometheus.CounterVec
	ledgerOperationLatency *prometheus.HistogramVec
	conflictRetriesTotal   *prometheus.CounterVec
	ledgerMismatchTotal    prometheus.Counter

	statementExportTotal   *prometheus.CounterVec
	statementExportLatency *prometheus.HistogramVec

	httpRequestsTotal  *prometheus.CounterVec
	httpRequestLatency *prometheus.HistogramVec
)

// Init registers the metrics with the default registry. Until it is called
// every Observe helper is a no-op, which keeps unit tests registry free.
func Init() {
	registerOnce.Do(func() {
		ledgerOperationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "operations_total",
				Help: "Total ledger operations by operation and result",
			},
			[]string{"operation", "result"},
		)
		ledgerOperationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "operation_latency_seconds",
				Help:    "Ledger operation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "result"},
		)
		conflictRetriesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "conflict_retries_total",
				Help: "Optimistic concurrency retries by operation",
			},
			[]string{"operation"},
		)
		ledgerMismatchTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "verification_mismatches_total",
				Help: "Ledger verifications where the cached balance disagreed with the replay",
			},
		)

		statementExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_export_total",
				Help: "Total statement export operations by format and result",
			},
			[]string{"format", "result"},
		)
		statementExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "statement_export_latency_seconds",
				Help:    "Statement export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		httpRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		)
		httpRequestLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		)

		prometheus.MustRegister(
			ledgerOperationsTotal,
			ledgerOperationLatency,
			conflictRetriesTotal,
			ledgerMismatchTotal,
			statementExportTotal,
			statementExportLatency,
			httpRequestsTotal,
			httpRequestLatency,
		)
	})
}

// ResultFor classifies an operation error into a result label.
func ResultFor(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, apperrors.ErrConflict):
		return ResultConflict
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return ResultError
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvariantViolation),
		errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrForbidden):
		return ResultRejected
	default:
		return ResultError
	}
}

// ObserveLedgerOperation records one service-level ledger operation.
func ObserveLedgerOperation(operation, result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if ledgerOperationsTotal != nil {
		ledgerOperationsTotal.WithLabelValues(operation, result).Inc()
	}
	if ledgerOperationLatency != nil {
		ledgerOperationLatency.WithLabelValues(operation, result).Observe(duration.Seconds())
	}
}

// IncConflictRetry counts one retry after a version conflict.
func IncConflictRetry(operation string) {
	if conflictRetriesTotal != nil {
		conflictRetriesTotal.WithLabelValues(operation).Inc()
	}
}

// IncLedgerMismatch counts one failed ledger verification.
func IncLedgerMismatch() {
	if ledgerMismatchTotal != nil {
		ledgerMismatchTotal.Inc()
	}
}

// ObserveStatementExport records one statement rendering.
func ObserveStatementExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = ResultSuccess
	}
	if statementExportTotal != nil {
		statementExportTotal.WithLabelValues(format, result).Inc()
	}
	if statementExportLatency != nil {
		statementExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// ObserveHTTPRequest records one served HTTP request.
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	if httpRequestsTotal != nil {
		httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	}
	if httpRequestLatency != nil {
		httpRequestLatency.WithLabelValues(method, route).Observe(duration.Seconds())
	}
}
