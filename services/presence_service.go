package services

import (
	"batepapo/domain"
	"batepapo/errors"
	"batepapo/observability"
	"batepapo/repositories"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type IPresenceService interface {
	Join(ctx context.Context, name string) (domain.Participant, error)
	Touch(ctx context.Context, name string) (time.Time, error)
	Sweep(ctx context.Context) domain.SweepReport
	ListParticipants(ctx context.Context) ([]domain.Participant, error)
}

// PresenceService tracks participant liveness and evicts the silent ones.
type PresenceService struct {
	log          *slog.Logger
	participants repositories.IParticipantRepository
	timeout      time.Duration
	concurrency  int
	now          func() time.Time
	sweeping     sync.Mutex
}

// NewPresenceService builds the tracker. A nil now defaults to time.Now.
func NewPresenceService(log *slog.Logger, participants repositories.IParticipantRepository,
	timeout time.Duration, concurrency int, now func() time.Time) *PresenceService {
	if now == nil {
		now = time.Now
	}
	return &PresenceService{
		log:          log,
		participants: participants,
		timeout:      timeout,
		concurrency:  max(concurrency, 1),
		now:          now,
	}
}

// Join registers a new participant and announces it to the room.
func (s *PresenceService) Join(_ context.Context, name string) (domain.Participant, error) {
	if domain.IsReservedName(name) {
		return domain.Participant{}, fmt.Errorf("join %q: %w", name, errors.ErrReservedName)
	}
	now := s.now().Truncate(time.Millisecond)
	participant := domain.Participant{Name: name, LastSeen: now}
	if err := s.participants.Create(participant, domain.JoinNotice(name, now)); err != nil {
		return domain.Participant{}, fmt.Errorf("join %q: %w", name, err)
	}
	observability.ParticipantsJoined.Inc()
	s.log.Info("Participant joined", "name", name)
	return participant, nil
}

// Touch records a heartbeat for name and returns the stored lastSeen.
func (s *PresenceService) Touch(_ context.Context, name string) (time.Time, error) {
	lastSeen, err := s.participants.UpdateLastSeen(name, s.now())
	if err != nil {
		return time.Time{}, fmt.Errorf("touch %q: %w", name, err)
	}
	observability.Heartbeats.Inc()
	return lastSeen, nil
}

func (s *PresenceService) ListParticipants(_ context.Context) ([]domain.Participant, error) {
	return s.participants.List()
}

// Sweep evicts every participant whose last heartbeat is at least timeout old.
// Staleness is judged against a single instant and a single snapshot read at the start;
// each eviction re-checks the participant inside its own transaction so a heartbeat
// that lands during the pass keeps it alive. Failures are logged per participant and
// never abort the pass. Only one pass runs at a time; an overlapping call is skipped.
func (s *PresenceService) Sweep(ctx context.Context) domain.SweepReport {
	if !s.sweeping.TryLock() {
		s.log.Warn("Sweep already in progress, skipping this one")
		observability.Sweeps.WithLabelValues("skipped").Inc()
		return domain.SweepReport{At: s.now(), Skipped: true}
	}
	defer s.sweeping.Unlock()

	started := time.Now()
	defer func() { observability.SweepDuration.Observe(time.Since(started).Seconds()) }()

	now := s.now()
	report := domain.SweepReport{At: now}

	snapshot, err := s.participants.List()
	if err != nil {
		s.log.Error("Sweep could not read participants", "error", err)
		report.Failures++
		observability.Sweeps.WithLabelValues("failed").Inc()
		return report
	}
	report.Scanned = len(snapshot)

	stale := lo.Filter(snapshot, func(p domain.Participant, _ int) bool {
		return p.IsStale(now, s.timeout)
	})

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, participant := range stale {
		if ctx.Err() != nil {
			s.log.Info("Sweep interrupted, remaining participants wait for the next pass")
			break
		}
		g.Go(func() error {
			evicted, err := s.participants.Evict(participant.Name, participant.LastSeen,
				domain.LeaveNotice(participant.Name, now))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				report.Failures++
				observability.EvictionFailures.Inc()
				s.log.Error("Eviction failed, retrying on next sweep",
					"name", participant.Name, "error", err)
			case evicted:
				report.Evicted = append(report.Evicted, participant.Name)
				observability.Evictions.Inc()
				s.log.Info("Participant left the room",
					"name", participant.Name, "idle", now.Sub(participant.LastSeen))
			default:
				s.log.Debug("Participant spared, seen during sweep", "name", participant.Name)
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(report.Evicted)
	observability.ActiveParticipants.Set(float64(report.Scanned - len(report.Evicted)))
	if report.Failures > 0 {
		observability.Sweeps.WithLabelValues("partial").Inc()
	} else {
		observability.Sweeps.WithLabelValues("completed").Inc()
	}
	if len(report.Evicted) > 0 || report.Failures > 0 {
		s.log.Info("Sweep finished",
			"scanned", report.Scanned, "evicted", len(report.Evicted), "failures", report.Failures)
	}
	return report
}
