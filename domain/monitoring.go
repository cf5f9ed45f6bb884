package domain

import (
	"sync"
	"time"
)

type NodeStatus string

const (
	ALIVE    NodeStatus = "ALIVE"
	DEGRADED NodeStatus = "DEGRADED"
)

// NodeHealth is the latest self sample of the server process.
type NodeHealth struct {
	Status     NodeStatus
	PID        int32
	PIDStatus  string
	CPU        float64
	RAM        uint64
	Goroutines int
	SampledAt  time.Time
}

// Monitoring holds the most recent NodeHealth, shared between the sampler and readers.
type Monitoring struct {
	mu     sync.RWMutex
	latest NodeHealth
}

func NewMonitoring() *Monitoring {
	return &Monitoring{latest: NodeHealth{Status: ALIVE}}
}

func (m *Monitoring) Update(n NodeHealth) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest = n
}

// Latest returns the last sample. A sample older than maxAge is reported DEGRADED.
func (m *Monitoring) Latest(now time.Time, maxAge time.Duration) NodeHealth {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := m.latest
	if !n.SampledAt.IsZero() && now.Sub(n.SampledAt) > maxAge {
		n.Status = DEGRADED
	}
	return n
}
