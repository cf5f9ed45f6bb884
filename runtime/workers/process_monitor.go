package workers

import (
	"batepapo/domain"
	"batepapo/observability"
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ProcessMonitorWorker samples the server's own CPU, memory and status
// into the shared Monitoring and the process gauges.
type ProcessMonitorWorker struct {
	log        *slog.Logger
	monitoring *domain.Monitoring
	interval   time.Duration
	now        func() time.Time
}

func NewProcessMonitorWorker(log *slog.Logger, monitoring *domain.Monitoring, interval time.Duration) *ProcessMonitorWorker {
	return &ProcessMonitorWorker{log: log, monitoring: monitoring, interval: interval, now: time.Now}
}

func (w *ProcessMonitorWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}
	w.sample(p)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.sample(p)
		}
	}
}

func (w *ProcessMonitorWorker) sample(p *process.Process) {
	rss, cpu, status, err := getSelfStats(p)
	if err != nil {
		w.log.Error("Failed to collect self stats", "error", err)
		return
	}
	health := domain.NodeHealth{
		Status:     domain.ALIVE,
		PID:        p.Pid,
		PIDStatus:  status,
		CPU:        cpu,
		RAM:        rss,
		Goroutines: runtime.NumGoroutine(),
		SampledAt:  w.now(),
	}
	w.monitoring.Update(health)
	observability.ProcessCPU.Set(cpu)
	observability.ProcessRSS.Set(float64(rss))
}

// getSelfStats retrieves memory, CPU and OS status for the given process.
func getSelfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}

	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
