package repository

import (
	"time"

	"github.com/okian/crease/pkg/metrics"
)

// observe records the latency of one store operation and counts it as an
// error unless it succeeded or simply found nothing.
func observe(backend, op string, start time.Time, err error) {
	metrics.RecordStoreLatency(backend, op, float64(time.Since(start).Microseconds())/1000)
	if err != nil && !isNotFound(err) {
		metrics.RecordStoreError(backend, op)
	}
}
