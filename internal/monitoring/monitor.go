// Package monitoring samples runtime health for the map server: goroutine
// counts and the gauges registered by server components.
package monitoring

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Gauge reports a current value, such as the number of stored sessions.
type Gauge func() int

// Options tunes a Monitor. Zero values take the defaults.
type Options struct {
	CheckInterval  time.Duration
	AlertThreshold int
	AlertCooldown  time.Duration
}

// Monitor tracks goroutine counts and named gauges.
type Monitor struct {
	mu             sync.RWMutex
	baseline       int
	current        int
	peak           int
	checkInterval  time.Duration
	alertThreshold int
	lastAlert      time.Time
	alertCooldown  time.Duration
	gauges         map[string]Gauge
	stopOnce       sync.Once
	stopChan       chan struct{}
	done           chan struct{}
	logger         zerolog.Logger
	numGoroutine   func() int
}

// New creates a monitor with the current goroutine count as its baseline.
func New(opts Options) *Monitor {
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = 30 * time.Second
	}
	if opts.AlertThreshold <= 0 {
		opts.AlertThreshold = 1000
	}
	if opts.AlertCooldown <= 0 {
		opts.AlertCooldown = 5 * time.Minute
	}
	baseline := runtime.NumGoroutine()
	return &Monitor{
		baseline:       baseline,
		current:        baseline,
		peak:           baseline,
		checkInterval:  opts.CheckInterval,
		alertThreshold: opts.AlertThreshold,
		alertCooldown:  opts.AlertCooldown,
		gauges:         make(map[string]Gauge),
		stopChan:       make(chan struct{}),
		done:           make(chan struct{}),
		logger:         log.With().Str("component", "monitor").Logger(),
		numGoroutine:   runtime.NumGoroutine,
	}
}

// Start begins periodic sampling in a background goroutine.
func (m *Monitor) Start() {
	go m.loop()
	m.logger.Info().
		Int("baseline", m.baseline).
		Dur("interval", m.checkInterval).
		Msg("Started runtime monitoring")
}

// Stop ends sampling and waits for the loop to exit. Safe to call twice.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
		<-m.done
	})
}

func (m *Monitor) loop() {
	defer close(m.done)
	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Check()
		case <-m.stopChan:
			return
		}
	}
}

// Register adds or replaces a named gauge.
func (m *Monitor) Register(name string, g Gauge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = g
}

// Check samples once and logs a warning if the goroutine count is over the
// threshold and the cooldown has passed. It reports whether it alerted.
func (m *Monitor) Check() bool {
	current := m.numGoroutine()

	m.mu.Lock()
	m.current = current
	if current > m.peak {
		m.peak = current
	}
	alert := current > m.alertThreshold && time.Since(m.lastAlert) > m.alertCooldown
	if alert {
		m.lastAlert = time.Now()
	}
	m.mu.Unlock()

	snap := m.Snapshot()
	ev := m.logger.Debug().
		Int("goroutines", snap.Goroutines).
		Int("baseline", snap.Baseline).
		Int("peak", snap.Peak)
	for _, name := range sortedKeys(snap.Gauges) {
		ev.Int(name, snap.Gauges[name])
	}
	ev.Msg("Runtime metrics")

	if alert {
		m.logger.Warn().
			Int("goroutines", current).
			Int("threshold", m.alertThreshold).
			Int("growth", current-m.baseline).
			Msg("High goroutine count detected - possible leak")
	}
	return alert
}

// Snapshot is a point-in-time view of the monitor.
type Snapshot struct {
	Goroutines int            `json:"goroutines"`
	Baseline   int            `json:"baseline"`
	Peak       int            `json:"peak"`
	Growth     int            `json:"growth"`
	Gauges     map[string]int `json:"gauges"`
}

// Snapshot reads every gauge and returns the latest goroutine sample.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{
		Goroutines: m.current,
		Baseline:   m.baseline,
		Peak:       m.peak,
		Growth:     m.current - m.baseline,
		Gauges:     make(map[string]int, len(m.gauges)),
	}
	for name, g := range m.gauges {
		s.Gauges[name] = g()
	}
	return s
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
