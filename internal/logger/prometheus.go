package logger

import (
	"github.com/maxaizer/talentflow/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// prometheusHook counts error entries by their error_type field.
type prometheusHook struct {
	errors *prometheus.CounterVec
}

func (h *prometheusHook) Fire(entry *log.Entry) error {
	errorType, ok := entry.Data[ErrorTypeField].(string)
	if !ok {
		errorType = "unknown"
	}

	h.errors.WithLabelValues(errorType).Inc()
	return nil
}

func (h *prometheusHook) Levels() []log.Level {
	return []log.Level{
		log.ErrorLevel,
		log.FatalLevel,
		log.PanicLevel,
	}
}

func addPrometheusHook() {
	log.AddHook(&prometheusHook{errors: metrics.ErrorsCounter})
	log.Info("Prometheus logging enabled")
}
