// Package metrics wires Prometheus counters and histograms around Store
// operations, using promauto against the default package-level registry.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/value"
)

var (
	operations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "structfs_store_operations_total",
			Help: "Total number of Store operations by mount, operation, and result",
		},
		[]string{"mount", "operation", "result"},
	)
	duration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "structfs_store_operation_duration_seconds",
			Help:    "Duration of Store operations by mount and operation",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mount", "operation"},
	)
)

// instrumented wraps a leaf Store, recording a counter and a duration
// histogram per Read/Write call, labeled with the mount name it was
// installed under.
type instrumented struct {
	mountName string
	inner     store.Store
}

// Wrap returns s instrumented under mountName. Call this from the
// StoreFactory (or anywhere a leaf Store is constructed) to make every
// mount's traffic visible on /metrics.
func Wrap(mountName string, s store.Store) store.Store {
	return &instrumented{mountName: mountName, inner: s}
}

func (i *instrumented) Read(ctx context.Context, p path.Path) (*value.Record, error) {
	start := time.Now()
	rec, err := i.inner.Read(ctx, p)
	i.observe("read", start, err)
	return rec, err
}

func (i *instrumented) Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error) {
	start := time.Now()
	written, err := i.inner.Write(ctx, p, rec)
	i.observe("write", start, err)
	return written, err
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	operations.WithLabelValues(i.mountName, op, result).Inc()
	duration.WithLabelValues(i.mountName, op).Observe(time.Since(start).Seconds())
}

var _ store.Store = (*instrumented)(nil)
