package metrics

import (
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"net/http"
	"sync"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "talentflow_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	ActionDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "talentflow_action_duration_seconds",
			Help:       "Duration of each controller action, store round trip included.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"action"},
	)
	ReordersCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "talentflow_job_reorders_total",
			Help: "Total number of job reorders by outcome.",
		},
		[]string{"result"},
	)
	StageTransitionsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "talentflow_stage_transitions_total",
			Help: "Total number of persisted candidate stage transitions by target stage.",
		},
		[]string{"stage"},
	)
	CandidatesByStage = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "talentflow_candidates",
			Help: "Number of candidates currently in each stage.",
		},
		[]string{"stage"},
	)
	ActiveJobs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "talentflow_active_jobs",
			Help: "Number of jobs with active status.",
		},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ErrorsCounter)
		prometheus.MustRegister(ActionDuration)
		prometheus.MustRegister(ReordersCounter)
		prometheus.MustRegister(StageTransitionsCounter)
		prometheus.MustRegister(CandidatesByStage)
		prometheus.MustRegister(ActiveJobs)
	})
}

func StartMetricsServer(port int) {

	Register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), mux))
	}()
}
