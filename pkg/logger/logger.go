// Package logger collapses bursts of identical log lines. Cache hits
// during a multi-query search produce the same message many times in a
// row; one line with a counter is enough.
package logger

import (
	"fmt"
	"log"
	"sync"
	"time"
)

var dedup = &deduplicator{
	flushDelay: 2 * time.Second,
}

type deduplicator struct {
	mu         sync.Mutex
	lastMsg    string
	count      int
	flushDelay time.Duration
	timer      *time.Timer
}

func (d *deduplicator) flush() {
	switch {
	case d.count == 0:
	case d.count == 1:
		log.Print(d.lastMsg)
	default:
		log.Printf("%s (%d)", d.lastMsg, d.count)
	}
	d.count = 0
	d.lastMsg = ""
}

func (d *deduplicator) arm() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.flushDelay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.flush()
	})
}

// Dedup logs like log.Printf but folds consecutive identical messages
// into a single line with a repeat count.
func Dedup(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	dedup.mu.Lock()
	defer dedup.mu.Unlock()

	if msg == dedup.lastMsg {
		dedup.count++
		dedup.arm()
		return
	}

	dedup.flush()
	dedup.lastMsg = msg
	dedup.count = 1
	dedup.arm()
}
