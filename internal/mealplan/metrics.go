package mealplan

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"example.com/fittrack/internal/llm"
)

var (
	llmRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "llm",
		Name:      "requests_total",
		Help:      "LLM requests by agent and outcome.",
	}, []string{"agent", "outcome"})

	llmFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "llm",
		Name:      "fallbacks_total",
		Help:      "Static fallbacks served instead of a model answer.",
	}, []string{"agent", "reason"})

	llmLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fittrack",
		Subsystem: "llm",
		Name:      "request_duration_seconds",
		Help:      "LLM request latency.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
	}, []string{"agent"})

	llmTokens = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "llm",
		Name:      "tokens_total",
		Help:      "Tokens consumed by kind.",
	}, []string{"agent", "kind"})
)

func init() {
	prometheus.MustRegister(llmRequests, llmFallbacks, llmLatency, llmTokens)
}

// AgentMeta holds operational metadata for one model call.
type AgentMeta struct {
	Agent   string
	Usage   llm.TokenUsage
	Latency time.Duration
}

func recordMeta(meta AgentMeta, outcome string) {
	llmRequests.WithLabelValues(meta.Agent, outcome).Inc()
	llmLatency.WithLabelValues(meta.Agent).Observe(meta.Latency.Seconds())
	if meta.Usage.PromptTokens > 0 {
		llmTokens.WithLabelValues(meta.Agent, "prompt").Add(float64(meta.Usage.PromptTokens))
	}
	if meta.Usage.CompletionTokens > 0 {
		llmTokens.WithLabelValues(meta.Agent, "completion").Add(float64(meta.Usage.CompletionTokens))
	}
}
