package endpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HealthSnapshot is the last-known state of an endpoint. The monitor
// replaces the whole snapshot atomically; readers may observe a snapshot
// up to one check interval old, which is by design.
type HealthSnapshot struct {
	Online          bool      `json:"online"`
	ModelsAvailable []string  `json:"models_available,omitempty"`
	ResponseTimeMs  int64     `json:"response_time_ms"`
	Error           string    `json:"error,omitempty"`
	LastCheck       time.Time `json:"last_check"`
}

type healthResponse struct {
	Status       string `json:"status"`
	GPUAvailable bool   `json:"gpu_available"`
	ModelsLoaded bool   `json:"models_loaded"`
}

type modelsResponse struct {
	TextModels  []string `json:"text_models"`
	ImageModels []string `json:"image_models"`
}

// Monitor probes an endpoint's health path on a fixed interval and keeps
// the latest completed snapshot. It is the sole writer of its snapshot.
type Monitor struct {
	baseURL      string
	interval     time.Duration
	probeTimeout time.Duration
	httpClient   *http.Client
	snapshot     atomic.Pointer[HealthSnapshot]
	stop         chan struct{}
	done         chan struct{}
	startOnce    sync.Once
	stopOnce     sync.Once
	debug        bool
}

// NewMonitor creates a health monitor for the endpoint described by cfg.
func NewMonitor(cfg Config) *Monitor {
	cfg.applyDefaults()
	m := &Monitor{
		baseURL:      cfg.BaseURL,
		interval:     cfg.HealthInterval,
		probeTimeout: cfg.ProbeTimeout,
		httpClient:   &http.Client{},
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	m.snapshot.Store(&HealthSnapshot{Online: false, Error: "not yet checked"})
	return m
}

// Start launches the background probe loop. It probes once immediately,
// then on every interval tick until Stop is called.
func (m *Monitor) Start() {
	m.startOnce.Do(func() {
		go m.loop()
	})
}

// Stop terminates the probe loop and waits for it to exit.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
		<-m.done
	})
}

// Snapshot returns the snapshot from the most recent completed probe.
func (m *Monitor) Snapshot() *HealthSnapshot {
	return m.snapshot.Load()
}

func (m *Monitor) loop() {
	defer close(m.done)

	m.ProbeOnce(context.Background())

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.ProbeOnce(context.Background())
		}
	}
}

// ProbeOnce performs a single health probe and replaces the snapshot.
func (m *Monitor) ProbeOnce(ctx context.Context) *HealthSnapshot {
	probeCtx, cancel := context.WithTimeout(ctx, m.probeTimeout)
	defer cancel()

	start := time.Now()
	snap := &HealthSnapshot{LastCheck: start.UTC()}

	var health healthResponse
	if err := m.get(probeCtx, "/health", &health); err != nil {
		snap.ResponseTimeMs = time.Since(start).Milliseconds()
		snap.Error = err.Error()
		if m.debug {
			log.Printf("[health] probe failed: %v", err)
		}
		m.snapshot.Store(snap)
		return snap
	}

	snap.Online = true
	snap.ResponseTimeMs = time.Since(start).Milliseconds()

	// Model list is best effort; a healthy endpoint with an unreadable
	// model list still counts as online.
	var models modelsResponse
	if err := m.get(probeCtx, "/models", &models); err == nil {
		snap.ModelsAvailable = append(models.TextModels, models.ImageModels...)
	}

	m.snapshot.Store(snap)
	return snap
}

func (m *Monitor) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &probeError{status: resp.StatusCode}
	}
	return json.Unmarshal(body, out)
}

type probeError struct {
	status int
}

func (e *probeError) Error() string {
	return fmt.Sprintf("health probe returned status %d", e.status)
}
