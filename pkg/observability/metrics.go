package observability

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// cloudWatchFlushEvery controls how often the collector pushes a snapshot
// to CloudWatch, counted in recorded requests.
const cloudWatchFlushEvery = 100

// Collector accumulates request metrics for the lifetime of the process.
// Counters are atomic so concurrent request handling within one process
// stays safe. The state is intentionally not durable; it resets when the
// hosting process restarts.
type Collector struct {
	requests     atomic.Uint64
	errors       atomic.Uint64
	latencyMicro atomic.Int64
	start        time.Time

	cw        *cloudwatch.Client
	namespace string
	logger    *zap.Logger
}

// NewCollector creates a fresh metrics collector
func NewCollector() *Collector {
	return &Collector{start: time.Now().UTC(), logger: zap.NewNop()}
}

// WithCloudWatch enables periodic snapshot publication to CloudWatch
func (c *Collector) WithCloudWatch(client *cloudwatch.Client, namespace string, logger *zap.Logger) *Collector {
	c.cw = client
	c.namespace = namespace
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Record adds one request sample to the accumulator
func (c *Collector) Record(latency time.Duration, isError bool) {
	total := c.requests.Add(1)
	c.latencyMicro.Add(latency.Microseconds())
	if isError {
		c.errors.Add(1)
	}

	if c.cw != nil && total%cloudWatchFlushEvery == 0 {
		go c.publish(context.Background())
	}
}

// Snapshot holds a point-in-time view of the accumulated metrics
type Snapshot struct {
	RequestsTotal     uint64
	ErrorsTotal       uint64
	AvgLatencySeconds float64
	UptimeSeconds     float64
	ErrorRate         float64
}

// Snapshot returns the current metric values
func (c *Collector) Snapshot() Snapshot {
	requests := c.requests.Load()
	errs := c.errors.Load()

	var avgLatency, errorRate float64
	if requests > 0 {
		avgLatency = float64(c.latencyMicro.Load()) / float64(requests) / 1e6
		errorRate = float64(errs) / float64(requests)
	}

	return Snapshot{
		RequestsTotal:     requests,
		ErrorsTotal:       errs,
		AvgLatencySeconds: avgLatency,
		UptimeSeconds:     time.Since(c.start).Seconds(),
		ErrorRate:         errorRate,
	}
}

// PrometheusText renders the snapshot in the Prometheus text exposition
// format served by the metrics endpoint.
func (c *Collector) PrometheusText() string {
	s := c.Snapshot()

	gauges := []struct {
		name  string
		value float64
	}{
		{"requests_total", float64(s.RequestsTotal)},
		{"errors_total", float64(s.ErrorsTotal)},
		{"request_latency_seconds_avg", s.AvgLatencySeconds},
		{"uptime_seconds", s.UptimeSeconds},
		{"error_rate", s.ErrorRate},
	}

	var b strings.Builder
	for _, g := range gauges {
		fmt.Fprintf(&b, "# HELP %s %s\n", g.name, titleFromName(g.name))
		fmt.Fprintf(&b, "# TYPE %s gauge\n", g.name)
		fmt.Fprintf(&b, "%s %g\n", g.name, g.value)
	}
	return b.String()
}

// titleFromName turns "requests_total" into "Requests Total" for HELP lines
func titleFromName(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// publish pushes the current snapshot to CloudWatch, best effort
func (c *Collector) publish(ctx context.Context) {
	s := c.Snapshot()
	now := time.Now().UTC()

	datum := func(name string, value float64, unit types.StandardUnit) types.MetricDatum {
		return types.MetricDatum{
			MetricName: aws.String(name),
			Value:      aws.Float64(value),
			Unit:       unit,
			Timestamp:  aws.Time(now),
		}
	}

	_, err := c.cw.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(c.namespace),
		MetricData: []types.MetricDatum{
			datum("RequestsTotal", float64(s.RequestsTotal), types.StandardUnitCount),
			datum("ErrorsTotal", float64(s.ErrorsTotal), types.StandardUnitCount),
			datum("AvgLatency", s.AvgLatencySeconds, types.StandardUnitSeconds),
			datum("ErrorRate", s.ErrorRate, types.StandardUnitNone),
		},
	})
	if err != nil {
		c.logger.Warn("Failed to publish metrics to CloudWatch", zap.Error(err))
	}
}
