package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/slok/slafeed/internal/feed"
	"github.com/slok/slafeed/internal/http/backend/metrics"
	"github.com/slok/slafeed/internal/log"
	"github.com/slok/slafeed/internal/model"
)

// ErrAlreadyRunning is returned when starting a session refresh that is already running.
var ErrAlreadyRunning = errors.New("session refresh already running")

// FeedGenerator knows how to generate the session datasets.
type FeedGenerator interface {
	Profile() feed.Profile
	Models() []model.Model
	Alerts() []model.Alert
	SLABreaches() []model.SLABreach
	FailoverEvents() []model.FailoverEvent
	SLAComplianceData() []model.ComplianceScore
	CostData() []model.CostSample
	LatencyTrendData() []model.LatencyPoint
}

type SessionConfig struct {
	Generator FeedGenerator
	// RefreshInterval forces the refresh interval, if missing the generator profile
	// interval is used on every iteration (so profile reloads are applied).
	RefreshInterval time.Duration
	// RefreshStaticDatasets makes the refreshes regenerate the SLA breaches, failover
	// events and compliance datasets too, by default only cost and latency are refreshed.
	RefreshStaticDatasets bool
	TimeNowFunc           func() time.Time // Used for faking time in testing and reproducible snapshots.
	MetricsRecorder       metrics.Recorder
	Logger                log.Logger
}

func (c *SessionConfig) defaults() error {
	if c.Generator == nil {
		return fmt.Errorf("feed generator is required")
	}

	if c.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval can't be negative")
	}

	if c.TimeNowFunc == nil {
		c.TimeNowFunc = time.Now
	}

	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.NoopRecorder
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "session.Session"})

	return nil
}

// Session is the owner of the dashboard datasets current values. The datasets are
// generated when the session is created and the refreshable ones are replaced
// periodically while the session refresh is running.
type Session struct {
	gen             FeedGenerator
	refreshInterval time.Duration
	refreshStatic   bool
	timeNowFunc     func() time.Time
	metricsRecorder metrics.Recorder
	logger          log.Logger

	mu       sync.RWMutex
	snapshot model.Snapshot

	lifecycleMu sync.Mutex
	cancel      context.CancelFunc
	done        chan struct{}
}

func NewSession(config SessionConfig) (*Session, error) {
	if err := config.defaults(); err != nil {
		return nil, err
	}

	s := &Session{
		gen:             config.Generator,
		refreshInterval: config.RefreshInterval,
		refreshStatic:   config.RefreshStaticDatasets,
		timeNowFunc:     config.TimeNowFunc,
		metricsRecorder: config.MetricsRecorder,
		logger:          config.Logger,
	}

	// Warm the session with every dataset.
	s.snapshot = model.Snapshot{
		Models:      s.gen.Models(),
		Alerts:      s.gen.Alerts(),
		Breaches:    s.gen.SLABreaches(),
		Failovers:   s.gen.FailoverEvents(),
		Compliance:  s.gen.SLAComplianceData(),
		Costs:       s.gen.CostData(),
		Latency:     s.gen.LatencyTrendData(),
		RefreshedAt: s.timeNowFunc(),
	}

	if !s.refreshStatic {
		s.logger.Debugf("SLA breaches, failover events and compliance datasets will not be refreshed")
	}

	return s, nil
}

// GetSnapshot returns the current datasets of the session.
func (s *Session) GetSnapshot(ctx context.Context) (*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	return &snap, nil
}

// Refresh regenerates the refreshable datasets and replaces the current ones.
func (s *Session) Refresh(ctx context.Context) (err error) {
	t0 := time.Now()
	defer func() {
		s.metricsRecorder.MeasureSessionRefresh(ctx, time.Since(t0), err)
	}()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("could not refresh session: %w", err)
	}

	costs := s.gen.CostData()
	latency := s.gen.LatencyTrendData()

	var (
		breaches   []model.SLABreach
		failovers  []model.FailoverEvent
		compliance []model.ComplianceScore
	)
	if s.refreshStatic {
		breaches = s.gen.SLABreaches()
		failovers = s.gen.FailoverEvents()
		compliance = s.gen.SLAComplianceData()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Costs = costs
	s.snapshot.Latency = latency
	if s.refreshStatic {
		s.snapshot.Breaches = breaches
		s.snapshot.Failovers = failovers
		s.snapshot.Compliance = compliance
	}
	s.snapshot.RefreshedAt = s.timeNowFunc()
	s.snapshot.Refreshes++

	return nil
}

// Run refreshes the session periodically until the context is cancelled.
func (s *Session) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			s.logger.Infof("Stopping session refresh")
			return nil
		case <-time.After(s.interval()):
			err := s.Refresh(ctx)
			if err != nil {
				s.logger.Errorf("Could not refresh session: %v", err)
			}
		}
	}
}

// Start runs the session refresh in background until Stop is called or the
// context is cancelled.
func (s *Session) Start(ctx context.Context) error {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	// A loop stopped by its context cancellation is not running anymore.
	if s.done != nil {
		select {
		case <-s.done:
		default:
			return ErrAlreadyRunning
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()

	return nil
}

// Stop stops the background session refresh and waits until it has finished.
// Stopping a session that is not running is a no-op.
func (s *Session) Stop() {
	s.lifecycleMu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.lifecycleMu.Unlock()

	if done == nil {
		return
	}

	cancel()
	<-done
}

func (s *Session) interval() time.Duration {
	if s.refreshInterval > 0 {
		return s.refreshInterval
	}
	return s.gen.Profile().RefreshInterval
}
