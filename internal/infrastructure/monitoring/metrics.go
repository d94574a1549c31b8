package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	LoansCreatedTotal      prometheus.Counter
	InstallmentPaymentsVec *prometheus.CounterVec
	ProposalsPublished     prometheus.Counter
	PublicIDAttempts       prometheus.Histogram
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loan_marketplace_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		LoansCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "loan_marketplace_loans_created_total",
				Help: "Total number of loans created from confirmed interests.",
			},
		),
		InstallmentPaymentsVec: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_marketplace_installment_payments_total",
				Help: "Installment payment attempts by outcome.",
			},
			[]string{"status"},
		),
		ProposalsPublished: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "loan_marketplace_proposals_published_total",
				Help: "Total number of proposals published from offers.",
			},
		),
		PublicIDAttempts: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "loan_marketplace_public_id_attempts",
				Help:    "Attempts needed to generate a unique public id.",
				Buckets: []float64{1, 2, 3, 5, 10},
			},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordLoanCreated() {
	Business.LoansCreatedTotal.Inc()
}

func RecordPayment(status string) {
	Business.InstallmentPaymentsVec.WithLabelValues(status).Inc()
}

func RecordProposalPublished() {
	Business.ProposalsPublished.Inc()
}

func RecordPublicIDAttempts(attempts int) {
	Business.PublicIDAttempts.Observe(float64(attempts))
}
