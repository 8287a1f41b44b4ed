package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	strategyMutationTotal   atomic.Uint64
	strategyLoadTotal       atomic.Uint64
	validationRejectedTotal atomic.Uint64

	assistantStarted   = newLabeledCounter()
	assistantCompleted = newLabeledCounter()
	assistantFailed    = newLabeledCounter()

	llmDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncStrategyMutation increments the strategy mutation counter.
func IncStrategyMutation() {
	strategyMutationTotal.Add(1)
}

// IncStrategyLoad increments the strategy load counter.
func IncStrategyLoad() {
	strategyLoadTotal.Add(1)
}

// IncValidationRejected increments the document pre-flight rejection counter.
func IncValidationRejected() {
	validationRejectedTotal.Add(1)
}

// IncAssistantStarted increments the started counter for an assistant operation.
func IncAssistantStarted(op string) {
	assistantStarted.Inc(op)
}

// IncAssistantCompleted increments the completed counter for an assistant operation.
func IncAssistantCompleted(op string) {
	assistantCompleted.Inc(op)
}

// IncAssistantFailed increments the failed counter for an assistant operation.
func IncAssistantFailed(op string) {
	assistantFailed.Inc(op)
}

// ObserveLLMDurationMs records a model call duration in milliseconds.
func ObserveLLMDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	llmDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "strategy_mutation_total", "Total strategy mutations persisted", strategyMutationTotal.Load())
	writeCounter(&buf, "strategy_load_total", "Total strategy documents loaded", strategyLoadTotal.Load())
	writeCounter(&buf, "validation_rejected_total", "Total documents rejected by pre-flight checks", validationRejectedTotal.Load())
	writeLabeledCounter(&buf, "assistant_started_total", "Total assistant operations started", assistantStarted.Snapshot())
	writeLabeledCounter(&buf, "assistant_completed_total", "Total assistant operations completed", assistantCompleted.Snapshot())
	writeLabeledCounter(&buf, "assistant_failed_total", "Total assistant operations failed", assistantFailed.Snapshot())
	writeHistogram(&buf, "llm_duration_ms", "Model call duration in milliseconds", llmDuration.Snapshot())
	return buf.String()
}

type labeledCounter struct {
	mu     sync.Mutex
	counts map[string]uint64
}

func newLabeledCounter() *labeledCounter {
	return &labeledCounter{counts: make(map[string]uint64)}
}

func (c *labeledCounter) Inc(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[label]++
}

func (c *labeledCounter) Snapshot() map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]uint64, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help string, counts map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(buf, "%s{op=\"%s\"} %d\n", name, label, counts[label])
	}
	if len(labels) == 0 {
		fmt.Fprintf(buf, "%s 0\n", name)
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	// Observe records counts cumulatively, so each bucket is emitted as-is.
	for i, bound := range snap.buckets {
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), snap.counts[i])
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
