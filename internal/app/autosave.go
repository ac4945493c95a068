package app

import (
	"time"
)

// Autosaver periodically invokes a flush callback from a background
// goroutine. Used to persist settings without blocking the UI thread on
// every toggle.
type Autosaver struct {
	interval time.Duration
	flush    func()
	stopCh   chan struct{}
	done     chan struct{}
}

// NewAutosaver creates an autosaver with the given interval and callback.
// The callback runs on a background goroutine.
func NewAutosaver(interval time.Duration, flush func()) *Autosaver {
	return &Autosaver{interval: interval, flush: flush}
}

// Start begins the periodic flush loop.
func (a *Autosaver) Start() {
	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.loop()
}

// Stop ends the loop and performs one final flush.
func (a *Autosaver) Stop() {
	if a.stopCh == nil {
		return
	}
	close(a.stopCh)
	<-a.done
	a.flush()
}

func (a *Autosaver) loop() {
	defer close(a.done)
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			a.flush()
		}
	}
}
