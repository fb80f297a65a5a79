// Package stats tracks process-wide counters for routed messages and model
// usage.
package stats

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Collector collects statistics. It is safe for concurrent use.
type Collector struct {
	startTime time.Time

	requestCount  atomic.Int64
	errorCount    atomic.Int64
	totalDuration atomic.Int64 // nanoseconds

	mu           sync.Mutex
	intents      map[string]int64
	promptTokens int64
	complTokens  int64
}

// NewCollector creates a new stats collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		intents:   make(map[string]int64),
	}
}

// Stats is a snapshot of the collector.
type Stats struct {
	Goroutines  int     `json:"goroutines"`
	HeapAllocMB float64 `json:"heap_alloc_mb"`
	Uptime      string  `json:"uptime"`

	RequestCount int64            `json:"request_count"`
	ErrorCount   int64            `json:"error_count"`
	AvgLatencyMs float64          `json:"avg_latency_ms"`
	Intents      map[string]int64 `json:"intents"`

	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
}

// Collect returns current statistics.
func (c *Collector) Collect() *Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	requests := c.requestCount.Load()
	avgLatency := float64(0)
	if requests > 0 {
		avgLatency = float64(c.totalDuration.Load()) / float64(requests) / 1e6
	}

	c.mu.Lock()
	intents := make(map[string]int64, len(c.intents))
	for k, v := range c.intents {
		intents[k] = v
	}
	prompt, compl := c.promptTokens, c.complTokens
	c.mu.Unlock()

	return &Stats{
		Goroutines:       runtime.NumGoroutine(),
		HeapAllocMB:      bytesToMB(int64(m.HeapAlloc)),
		Uptime:           time.Since(c.startTime).Round(time.Second).String(),
		RequestCount:     requests,
		ErrorCount:       c.errorCount.Load(),
		AvgLatencyMs:     avgLatency,
		Intents:          intents,
		PromptTokens:     prompt,
		CompletionTokens: compl,
	}
}

// RecordRequest records a routed message.
func (c *Collector) RecordRequest(intent string, duration time.Duration) {
	c.requestCount.Add(1)
	c.totalDuration.Add(duration.Nanoseconds())
	c.mu.Lock()
	c.intents[intent]++
	c.mu.Unlock()
}

// RecordTokens records model token usage.
func (c *Collector) RecordTokens(prompt, completion int) {
	c.mu.Lock()
	c.promptTokens += int64(prompt)
	c.complTokens += int64(completion)
	c.mu.Unlock()
}

// RecordError records a message answered with the general error reply.
func (c *Collector) RecordError() {
	c.errorCount.Add(1)
}

func bytesToMB(b int64) float64 {
	return float64(b) / 1024 / 1024
}
