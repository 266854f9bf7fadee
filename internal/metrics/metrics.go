// Package metrics keeps in-process counters for the interview workflow.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/interview-coach/internal/llm"
)

// Metrics counts workflow events. A nil *Metrics is valid and records nothing.
type Metrics struct {
	mu                     sync.RWMutex
	sessionsCreated        int64
	interviewsStarted      int64
	interviewsCompleted    int64
	turnsGenerated         int64
	assessmentsProduced    int64
	assessmentsUnavailable int64
	apiCallsTotal          int64
	apiCallsSuccessful     int64
	fallbacks              map[string]int64
	lastUpdateTime         time.Time
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	SessionsCreated        int64            `json:"sessions_created"`
	InterviewsStarted      int64            `json:"interviews_started"`
	InterviewsCompleted    int64            `json:"interviews_completed"`
	TurnsGenerated         int64            `json:"turns_generated"`
	AssessmentsProduced    int64            `json:"assessments_produced"`
	AssessmentsUnavailable int64            `json:"assessments_unavailable"`
	APICallsTotal          int64            `json:"api_calls_total"`
	APICallsSuccessful     int64            `json:"api_calls_successful"`
	Fallbacks              map[string]int64 `json:"fallbacks"`
	LastUpdateTime         time.Time        `json:"last_update_time"`
}

// NewMetrics returns zeroed counters.
func NewMetrics() *Metrics {
	return &Metrics{
		fallbacks:      make(map[string]int64),
		lastUpdateTime: time.Now(),
	}
}

func (m *Metrics) update(fn func()) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
	m.lastUpdateTime = time.Now()
}

// IncrementSessionsCreated records a captured profile.
func (m *Metrics) IncrementSessionsCreated() {
	m.update(func() { m.sessionsCreated++ })
}

// IncrementInterviewsStarted records a live interview start.
func (m *Metrics) IncrementInterviewsStarted() {
	m.update(func() { m.interviewsStarted++ })
}

// IncrementInterviewsCompleted records a live interview reaching terminal.
func (m *Metrics) IncrementInterviewsCompleted() {
	m.update(func() { m.interviewsCompleted++ })
}

// IncrementTurnsGenerated records one interviewer reply.
func (m *Metrics) IncrementTurnsGenerated() {
	m.update(func() { m.turnsGenerated++ })
}

// IncrementAssessment records an assessment outcome.
func (m *Metrics) IncrementAssessment(available bool) {
	m.update(func() {
		if available {
			m.assessmentsProduced++
		} else {
			m.assessmentsUnavailable++
		}
	})
}

// IncrementAPICall records one chat completion call.
func (m *Metrics) IncrementAPICall(success bool) {
	m.update(func() {
		m.apiCallsTotal++
		if success {
			m.apiCallsSuccessful++
		}
	})
}

// IncrementFallback records a canned substitute used by component.
func (m *Metrics) IncrementFallback(component string) {
	m.update(func() { m.fallbacks[component]++ })
}

// GetSnapshot returns a copy of the counters.
func (m *Metrics) GetSnapshot() Snapshot {
	if m == nil {
		return Snapshot{Fallbacks: map[string]int64{}}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	fallbacks := make(map[string]int64, len(m.fallbacks))
	for k, v := range m.fallbacks {
		fallbacks[k] = v
	}
	return Snapshot{
		SessionsCreated:        m.sessionsCreated,
		InterviewsStarted:      m.interviewsStarted,
		InterviewsCompleted:    m.interviewsCompleted,
		TurnsGenerated:         m.turnsGenerated,
		AssessmentsProduced:    m.assessmentsProduced,
		AssessmentsUnavailable: m.assessmentsUnavailable,
		APICallsTotal:          m.apiCallsTotal,
		APICallsSuccessful:     m.apiCallsSuccessful,
		Fallbacks:              fallbacks,
		LastUpdateTime:         m.lastUpdateTime,
	}
}

// InstrumentedClient counts every call made through an llm.Client.
type InstrumentedClient struct {
	llm.Client
	metrics *Metrics
}

// Instrument wraps client so each Complete call is counted.
func Instrument(client llm.Client, m *Metrics) *InstrumentedClient {
	return &InstrumentedClient{Client: client, metrics: m}
}

// Complete forwards to the wrapped client and records the outcome.
func (c *InstrumentedClient) Complete(ctx context.Context, prompt, credential string, tier llm.ModelTier) (string, error) {
	out, err := c.Client.Complete(ctx, prompt, credential, tier)
	c.metrics.IncrementAPICall(err == nil)
	return out, err
}
