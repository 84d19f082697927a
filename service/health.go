package service

import (
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bwayne222/youtube-video-downloader/log"
	"github.com/bwayne222/youtube-video-downloader/utils"
)

const probeTimeout = 3 * time.Second

// PipedHealth keeps the Piped mirror pool ordered healthy-first. Unhealthy
// mirrors stay at the tail so the provider still tries them as a last
// resort; a mirror that flaps during a probe window is not lost.
type PipedHealth struct {
	mu         sync.RWMutex
	configured []string
	ordered    []string
	http       *http.Client
	cron       *cron.Cron
}

func NewPipedHealth(instances []string) *PipedHealth {
	ordered := make([]string, len(instances))
	copy(ordered, instances)
	return &PipedHealth{
		configured: instances,
		ordered:    ordered,
		http:       &http.Client{Timeout: probeTimeout},
	}
}

// Instances returns the current healthy-first ordering.
func (h *PipedHealth) Instances() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.ordered))
	copy(out, h.ordered)
	return out
}

// Start probes once immediately, then on the given cron schedule
// (e.g. "@every 5m").
func (h *PipedHealth) Start(schedule string) error {
	utils.SafeCall(h.Check)
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { utils.SafeCall(h.Check) }); err != nil {
		return err
	}
	c.Start()
	h.cron = c
	return nil
}

func (h *PipedHealth) Stop() {
	if h.cron != nil {
		h.cron.Stop()
	}
}

// Check probes every configured mirror and reorders the pool.
func (h *PipedHealth) Check() {
	healthy := make([]string, 0, len(h.configured))
	unhealthy := make([]string, 0)
	for _, instance := range h.configured {
		if h.probe(instance) {
			healthy = append(healthy, instance)
		} else {
			unhealthy = append(unhealthy, instance)
		}
	}
	log.Debug("piped health: %d/%d mirrors healthy", len(healthy), len(h.configured))
	h.mu.Lock()
	h.ordered = append(healthy, unhealthy...)
	h.mu.Unlock()
}

func (h *PipedHealth) probe(instance string) bool {
	resp, err := h.http.Get(instance + "/healthcheck")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
