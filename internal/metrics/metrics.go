package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/smira/go-statsd"
	"go.uber.org/zap"
)

const Prefix = "go-album."

type Sample struct {
	Name    string
	Count   int64
	Elapsed time.Duration
}

type Metrics struct {
	mu      sync.Mutex
	samples map[string]*Sample
	client  *statsd.Client
}

func NewMetrics() *Metrics {
	return &Metrics{samples: make(map[string]*Sample)}
}

// NewStatsdMetrics keeps in-process samples like NewMetrics and also sends
// every metric to the statsd daemon listening on addr.
func NewStatsdMetrics(addr string, logger *zap.Logger) *Metrics {
	client := statsd.NewClient(addr,
		statsd.MetricPrefix(Prefix),
		statsd.FlushInterval(3*time.Second),
		statsd.Logger(zap.NewStdLog(logger)),
	)

	x := NewMetrics()
	x.client = client
	return x
}

// Close flushes pending statsd packets.
func (x *Metrics) Close() error {
	if x == nil || x.client == nil {
		return nil
	}
	return x.client.Close()
}

func NoMetrics() *Metrics {
	return &Metrics{}
}

func (x *Metrics) sample(metricName string) *Sample {
	s, ok := x.samples[metricName]
	if !ok {
		s = &Sample{Name: metricName}
		x.samples[metricName] = s
	}
	return s
}

// Record starts timing metricName; the returned func stops it.
func (x *Metrics) Record(metricName string) func() {
	if x == nil || x.samples == nil {
		return func() {}
	}

	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		if x.client != nil {
			x.client.PrecisionTiming(metricName, elapsed)
		}

		x.mu.Lock()
		defer x.mu.Unlock()
		s := x.sample(metricName)
		s.Count++
		s.Elapsed += elapsed
	}
}

func (x *Metrics) Increment(metricName string) {
	if x == nil || x.samples == nil {
		return
	}

	if x.client != nil {
		x.client.Incr(metricName, 1)
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.sample(metricName).Count++
}

func (x *Metrics) Count(metricName string) int64 {
	if x == nil || x.samples == nil {
		return 0
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if s, ok := x.samples[metricName]; ok {
		return s.Count
	}
	return 0
}

// Snapshot returns a copy of all samples sorted by name.
func (x *Metrics) Snapshot() []Sample {
	if x == nil || x.samples == nil {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	out := make([]Sample, 0, len(x.samples))
	for _, s := range x.samples {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
