package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	repvision = "repvision"

	// Pipeline metrics
	jobsSubmittedTotal    = "jobs_submitted_total"
	jobsCompletedTotal    = "jobs_completed_total"
	duplicateResultsTotal = "duplicate_results_total"
	StalePendingJobs      = "stale_pending_jobs"

	// Push metrics
	pushSendsTotal        = "push_sends_total"
	pushSendFailuresTotal = "push_send_failures_total"

	// Labels
	exerciseLabel = "exercise"
)

/**
* Metrics definition
**/
var jobsSubmittedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: repvision,
		Name:      jobsSubmittedTotal,
		Help:      "number of analysis jobs accepted for processing",
	},
	[]string{exerciseLabel},
)

var jobsCompletedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: repvision,
		Name:      jobsCompletedTotal,
		Help:      "number of analysis jobs transitioned to COMPLETED",
	},
	[]string{exerciseLabel},
)

var duplicateResultsTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: repvision,
		Name:      duplicateResultsTotal,
		Help:      "number of result reports received for an already completed job",
	},
)

var stalePendingJobsMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Subsystem: repvision,
		Name:      StalePendingJobs,
		Help:      "number of jobs stuck in PENDING longer than the dispatch timeout",
	},
)

var pushSendsTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: repvision,
		Name:      pushSendsTotal,
		Help:      "number of push delivery attempts handed to the provider",
	},
)

var pushSendFailuresTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: repvision,
		Name:      pushSendFailuresTotal,
		Help:      "number of push delivery attempts rejected or failed",
	},
)

func IncreaseJobsSubmittedMetric(exercise string) {
	jobsSubmittedTotalMetric.With(prometheus.Labels{exerciseLabel: exercise}).Inc()
}

func IncreaseJobsCompletedMetric(exercise string) {
	jobsCompletedTotalMetric.With(prometheus.Labels{exerciseLabel: exercise}).Inc()
}

func IncreaseDuplicateResultsMetric() {
	duplicateResultsTotalMetric.Inc()
}

func UpdateStalePendingJobsMetric(count int) {
	stalePendingJobsMetric.Set(float64(count))
}

func IncreasePushSendsMetric() {
	pushSendsTotalMetric.Inc()
}

func IncreasePushSendFailuresMetric() {
	pushSendFailuresTotalMetric.Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(jobsSubmittedTotalMetric)
	prometheus.MustRegister(jobsCompletedTotalMetric)
	prometheus.MustRegister(duplicateResultsTotalMetric)
	prometheus.MustRegister(stalePendingJobsMetric)
	prometheus.MustRegister(pushSendsTotalMetric)
	prometheus.MustRegister(pushSendFailuresTotalMetric)
}
