package services

import (
	"log"
	"time"
)

const idlePollInterval = 1 * time.Minute

type idleResetter interface {
	ResetIfIdle(maxIdle time.Duration, now time.Time) bool
}

// IdleReaper discards the chat session after a period without sends.
type IdleReaper struct {
	sessions idleResetter
	maxIdle  time.Duration
	interval time.Duration
	stopChan chan struct{}
}

func NewIdleReaper(sessions idleResetter, maxIdle time.Duration) *IdleReaper {
	interval := idlePollInterval
	if maxIdle > 0 && maxIdle < interval {
		interval = maxIdle
	}
	return &IdleReaper{
		sessions: sessions,
		maxIdle:  maxIdle,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start launches the reaper. It is a no-op when maxIdle is not positive.
func (r *IdleReaper) Start() bool {
	if r.sessions == nil || r.maxIdle <= 0 {
		return false
	}
	go r.loop()
	return true
}

func (r *IdleReaper) Stop() {
	select {
	case <-r.stopChan:
		return
	default:
		close(r.stopChan)
	}
}

func (r *IdleReaper) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case now := <-ticker.C:
			r.sweep(now)
		}
	}
}

func (r *IdleReaper) sweep(now time.Time) {
	if r.sessions.ResetIfIdle(r.maxIdle, now) {
		log.Printf("idle reaper: session idle for more than %s, reset", r.maxIdle)
	}
}
