package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
	httpErrorsTotal    *prometheus.CounterVec

	evaluationsFinalizedTotal prometheus.Counter
	reportsAcceptedTotal      prometheus.Counter
	surveysCascadedTotal      prometheus.Counter
	surveysCompletedTotal     prometheus.Counter

	notificationsPublishedTotal *prometheus.CounterVec
	sseClientsActive            prometheus.Gauge

	documentUploadsTotal    *prometheus.CounterVec
	documentUploadsRejected *prometheus.CounterVec
	documentUploadLatency   prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remed_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "remed_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remed_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		evaluationsFinalizedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "remed_evaluations_finalized_total",
			Help: "Total number of rotation evaluations finalized.",
		})

		reportsAcceptedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "remed_reports_accepted_total",
			Help: "Total number of grade reports accepted by residents.",
		})

		surveysCascadedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "remed_surveys_cascaded_total",
			Help: "Total number of rotation surveys created by evaluation finalization.",
		})

		surveysCompletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "remed_surveys_completed_total",
			Help: "Total number of rotation surveys completed.",
		})

		notificationsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remed_notifications_published_total",
			Help: "Total number of notifications published, by type.",
		}, []string{"type"})

		sseClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "remed_sse_clients_active",
			Help: "Number of currently connected notification stream clients.",
		})

		documentUploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remed_document_uploads_total",
			Help: "Total number of accepted document uploads, by detected type.",
		}, []string{"type"})

		documentUploadsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remed_document_uploads_rejected_total",
			Help: "Total number of rejected document uploads, by reason.",
		}, []string{"reason"})

		documentUploadLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "remed_document_upload_seconds",
			Help:    "Latency distribution for document uploads.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			evaluationsFinalizedTotal,
			reportsAcceptedTotal,
			surveysCascadedTotal,
			surveysCompletedTotal,
			notificationsPublishedTotal,
			sseClientsActive,
			documentUploadsTotal,
			documentUploadsRejected,
			documentUploadLatency,
		)
	})
}

// HTTPRequests exposes the counter for served requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for served requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// EvaluationsFinalizedTotal exposes the finalized evaluation counter.
func EvaluationsFinalizedTotal() prometheus.Counter {
	RegisterMetrics()
	return evaluationsFinalizedTotal
}

// ReportsAcceptedTotal exposes the accepted report counter.
func ReportsAcceptedTotal() prometheus.Counter {
	RegisterMetrics()
	return reportsAcceptedTotal
}

// SurveysCascadedTotal exposes the cascaded survey counter.
func SurveysCascadedTotal() prometheus.Counter {
	RegisterMetrics()
	return surveysCascadedTotal
}

// SurveysCompletedTotal exposes the completed survey counter.
func SurveysCompletedTotal() prometheus.Counter {
	RegisterMetrics()
	return surveysCompletedTotal
}

// NotificationsPublishedTotal exposes the published notification counter.
func NotificationsPublishedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublishedTotal
}

// SSEClientsActive exposes the connected stream client gauge.
func SSEClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return sseClientsActive
}

// DocumentUploadsTotal exposes the accepted upload counter.
func DocumentUploadsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return documentUploadsTotal
}

// DocumentUploadsRejected exposes the rejected upload counter.
func DocumentUploadsRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return documentUploadsRejected
}

// DocumentUploadLatency exposes the upload latency histogram.
func DocumentUploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return documentUploadLatency
}
