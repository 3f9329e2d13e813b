package middleware

import (
	"battlefeed/monitoring"
	"github.com/prometheus/client_golang/prometheus"
)

type StorageMiddleware struct{}

func NewStorageMiddleware() *StorageMiddleware {
	return &StorageMiddleware{}
}

// Do runs a single store mutation or read, recording its duration and outcome.
func (m *StorageMiddleware) Do(operation string, f func() error) error {
	timer := prometheus.NewTimer(monitoring.StorageOperationDuration.WithLabelValues(operation))
	err := f()
	timer.ObserveDuration()

	status := "ok"
	if err != nil {
		status = "error"
	}
	monitoring.StorageOperations.WithLabelValues(operation, status).Inc()

	return err
}
