// Package connectivity tracks whether the backend is reachable from this
// device and notifies subscribers when it comes back online.
package connectivity

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Monitor exposes the device's connectivity as the sync engine consumes it:
// a synchronous flag plus a became-online subscription.
type Monitor interface {
	// Online reports the result of the most recent probe.
	Online() bool

	// OnOnline registers fn to run on every offline-to-online transition.
	// The returned func cancels the subscription; it is safe to call twice.
	OnOnline(fn func()) (unsubscribe func())
}

// ProbeFunc checks reachability once. A nil error means online.
type ProbeFunc func(ctx context.Context) error

// HTTPProbe probes the backend health endpoint.
func HTTPProbe(baseURL string) ProbeFunc {
	client := &http.Client{Timeout: 3 * time.Second}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/v1/health", nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("health check failed: %s", resp.Status)
		}
		return nil
	}
}

// ProbeMonitor polls a ProbeFunc on a ticker. The device starts offline and
// flips online after the first successful probe.
type ProbeMonitor struct {
	probe    ProbeFunc
	interval time.Duration

	mu     sync.Mutex
	online bool
	subs   map[int]func()
	nextID int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewProbeMonitor(probe ProbeFunc, interval time.Duration) *ProbeMonitor {
	return &ProbeMonitor{
		probe:    probe,
		interval: interval,
		subs:     make(map[int]func()),
	}
}

// Start probes once immediately, then keeps probing on the interval until
// Stop is called or ctx ends.
func (m *ProbeMonitor) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		m.probeOnce(ctx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.probeOnce(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends probing and waits for the poll goroutine to exit.
func (m *ProbeMonitor) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

func (m *ProbeMonitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

func (m *ProbeMonitor) OnOnline(fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.subs[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

func (m *ProbeMonitor) probeOnce(ctx context.Context) {
	err := m.probe(ctx)
	m.setOnline(err == nil)
}

func (m *ProbeMonitor) setOnline(online bool) {
	m.mu.Lock()
	cameOnline := online && !m.online
	m.online = online
	var fns []func()
	if cameOnline {
		fns = make([]func(), 0, len(m.subs))
		for _, fn := range m.subs {
			fns = append(fns, fn)
		}
	}
	m.mu.Unlock()

	// Callbacks run outside the lock so they may subscribe/unsubscribe.
	for _, fn := range fns {
		fn()
	}
}
