// Package spoilage implements the background supervisor that watches the
// inventory and nags about ingredients that are about to go off.
package spoilage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/freshness"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

// Source produces the current spoilage report. *engine.Engine satisfies it.
type Source interface {
	SpoilageReport(ctx context.Context) freshness.Report
}

// Option configures the supervisor.
type Option func(*Supervisor)

// WithTickInterval sets how often the supervisor scans the inventory.
func WithTickInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithWeeklyDigest enables the non-urgent notice for items expiring this week.
func WithWeeklyDigest(on bool) Option {
	return func(s *Supervisor) { s.weekly = on }
}

// Supervisor scans on a ticker. Each (ingredient id, expiration) pair is
// announced at most once, so restocking or editing an item re-arms it.
type Supervisor struct {
	source       Source
	notifier     domain.Notifier
	log          *logger.Logger
	tickInterval time.Duration
	weekly       bool

	mu       sync.Mutex
	running  bool
	cancel   context.CancelFunc
	notified map[notice]bool
}

type notice struct {
	id         int
	expiration int
}

// New creates a spoilage supervisor with the given dependencies and options.
func New(source Source, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		source:       source,
		notifier:     notifier,
		log:          log,
		tickInterval: time.Hour,
		weekly:       true,
		notified:     make(map[notice]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs one scan immediately and then begins the loop. Non-blocking.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("spoilage supervisor already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	go s.loop(childCtx)

	s.log.Info("spoilage supervisor started (tick=%s)", s.tickInterval)
}

// Stop shuts down the supervisor.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.running = false
	s.log.Info("spoilage supervisor stopped")
}

func (s *Supervisor) loop(ctx context.Context) {
	s.Tick(ctx)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one scan. Exported so the console can force a check.
func (s *Supervisor) Tick(ctx context.Context) {
	report := s.source.SpoilageReport(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[notice]bool)
	for _, g := range report.Groups {
		for _, e := range g.Entries {
			key := notice{id: e.ID, expiration: e.Expiration}
			seen[key] = true
			if s.notified[key] {
				continue
			}
			switch {
			case g.Tier == freshness.TierCritical:
				s.send(ctx, true, criticalMessage(e))
			case g.Tier == freshness.TierExpiringSoon && s.weekly:
				s.send(ctx, false, fmt.Sprintf("[Pantry] %s (x%d) expires in %s.", e.Name, e.Quantity, e.Label))
			default:
				continue
			}
			s.notified[key] = true
		}
	}

	// Forget items that are gone or changed so the map stays bounded.
	for key := range s.notified {
		if !seen[key] {
			delete(s.notified, key)
		}
	}
}

func (s *Supervisor) send(ctx context.Context, urgent bool, msg string) {
	var err error
	if urgent {
		err = s.notifier.NotifyUrgent(ctx, msg)
	} else {
		err = s.notifier.Notify(ctx, msg)
	}
	if err != nil {
		s.log.Error("spoilage: notify: %v", err)
	}
}

func criticalMessage(e freshness.Entry) string {
	if e.Expiration <= 0 {
		return fmt.Sprintf("[Pantry] %s (x%d) has expired. Check it before use.", e.Name, e.Quantity)
	}
	return fmt.Sprintf("[Pantry] %s (x%d) expires in %s. Use it today.", e.Name, e.Quantity, e.Label)
}
