package report

import (
	"context"
	"sync"
	"time"

	"github.com/reportd/reportd/internal/module/report/store"
	"github.com/reportd/reportd/internal/shared/events"
	"github.com/reportd/reportd/internal/shared/logger"
)

// Janitor periodically evicts expired artifacts from the store. Eviction
// failures are logged and never surface to in-flight requests.
type Janitor struct {
	store    store.Store
	interval time.Duration
	bus      *events.Bus
	log      *logger.Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewJanitor creates a janitor for the given store. bus may be nil.
func NewJanitor(st store.Store, interval time.Duration, bus *events.Bus, log *logger.Logger) *Janitor {
	if log == nil {
		log = logger.New(nil)
	}
	return &Janitor{
		store:    st,
		interval: interval,
		bus:      bus,
		log:      log,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the eviction loop.
func (j *Janitor) Start() {
	j.log.Info("cache janitor started",
		"interval", j.interval.String(),
		"ttl", j.store.TTL().String(),
	)

	j.wg.Add(1)
	go j.loop()
}

// Stop halts the eviction loop and waits for a running pass to finish.
func (j *Janitor) Stop() {
	close(j.stopCh)
	j.wg.Wait()
	j.log.Info("cache janitor stopped")
}

func (j *Janitor) loop() {
	defer j.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stopCh:
			return
		case <-ticker.C:
			j.evict()
		}
	}
}

// evict runs one eviction pass.
func (j *Janitor) evict() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := j.store.EvictExpired(ctx)
	if err != nil {
		j.log.Error("cache eviction failed", "error", err)
		return
	}
	if removed == 0 {
		return
	}

	j.log.Info("evicted expired artifacts", "removed", removed)
	if j.bus != nil {
		j.bus.Publish(events.NewReportsEvictedEvent(removed))
	}
}
