package server

import (
	"batepapo/domain"
	"net/http"
	"time"
)

// staleSample is how old the process sample may get before health reports DEGRADED.
const staleSample = time.Minute

type HealthResponse struct {
	Status       string  `json:"status"`
	Participants int     `json:"participants"`
	PID          int32   `json:"pid"`
	PIDStatus    string  `json:"pid_status"`
	RSSBytes     uint64  `json:"rss_bytes"`
	CPUPercent   float64 `json:"cpu_percent"`
	Goroutines   int     `json:"goroutines"`
	SampledAt    string  `json:"sampled_at,omitempty"`
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	node := domain.NodeHealth{Status: domain.ALIVE}
	if h.monitoring != nil {
		node = h.monitoring.Latest(time.Now(), staleSample)
	}

	participants, err := h.presence.ListParticipants(r.Context())
	if err != nil {
		h.log.Warn("Health check could not read participants", "error", err)
		node.Status = domain.DEGRADED
	}

	resp := HealthResponse{
		Status:       string(node.Status),
		Participants: len(participants),
		PID:          node.PID,
		PIDStatus:    node.PIDStatus,
		RSSBytes:     node.RAM,
		CPUPercent:   node.CPU,
		Goroutines:   node.Goroutines,
	}
	if !node.SampledAt.IsZero() {
		resp.SampledAt = node.SampledAt.UTC().Format(time.RFC3339)
	}

	status := http.StatusOK
	if node.Status != domain.ALIVE {
		status = http.StatusServiceUnavailable
	}
	h.JSON(w, status, resp)
}
