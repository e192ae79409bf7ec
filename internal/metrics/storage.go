package metrics

import (
	"github.com/dafibh/prolink/prolink-backend/internal/repository/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var avatarUploadAttempts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "prolink",
		Subsystem: "storage",
		Name:      "upload_attempts_total",
		Help:      "Avatar upload attempts by strategy and outcome.",
	},
	[]string{"strategy", "outcome"},
)

// UploadObserver counts avatar upload attempts per strategy
type UploadObserver struct {
	counter *prometheus.CounterVec
}

var _ storage.UploadObserver = (*UploadObserver)(nil)

// NewUploadObserver returns an observer backed by the process-wide counter
func NewUploadObserver() *UploadObserver {
	return &UploadObserver{counter: avatarUploadAttempts}
}

// ObserveUpload implements storage.UploadObserver
func (o *UploadObserver) ObserveUpload(strategy, outcome string) {
	o.counter.WithLabelValues(strategy, outcome).Inc()
}
