package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"net/http"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	CandidateMovesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_candidate_moves_total",
			Help: "Total number of candidate stage moves by outcome.",
		},
		[]string{"status"},
	)
	ReorderDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "funnel_reorder_duration_seconds",
			Help:       "Duration of ordering updates per scope.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"scope"},
	)
	ResumeParseCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_resume_parse_total",
			Help: "Total number of structured résumé parse attempts by result.",
		},
		[]string{"result"},
	)
	RankingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "funnel_resume_ranking_duration_seconds",
			Help:    "Duration of ranking a recruitment's résumé pool.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60},
		},
	)
	NotificationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_notifications_total",
			Help: "Total number of notifications handed to sinks by result.",
		},
		[]string{"sink", "result"},
	)
	HiredGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "funnel_recruitment_hired",
			Help: "Candidates in hired stages per open recruitment.",
		},
		[]string{"recruitment"},
	)
	VacancyFilledGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "funnel_recruitment_vacancy_filled",
			Help: "1 when the recruitment's vacancy target is met.",
		},
		[]string{"recruitment"},
	)
)

func Register() {
	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(CandidateMovesCounter)
	prometheus.MustRegister(ReorderDuration)
	prometheus.MustRegister(ResumeParseCounter)
	prometheus.MustRegister(RankingDuration)
	prometheus.MustRegister(NotificationsCounter)
	prometheus.MustRegister(HiredGauge)
	prometheus.MustRegister(VacancyFilledGauge)
}

func StartMetricsServer(address string) {

	Register()

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(address, nil))
	}()
}
