// Package watch notifies the tutor when the sandbox changes on disk, so
// steps can re-verify without waiting for the learner to press enter.
package watch

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"gitcoach/internal/logging"
)

// SandboxWatcher watches a sandbox directory (and the git dirs inside it)
// and emits a debounced signal on Changes after activity settles. Rapid
// bursts of events, a git commit touching dozens of object files for
// instance, collapse into a single notification.
type SandboxWatcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	dir         string
	debounceDur time.Duration
	pending     map[string]time.Time
	changes     chan struct{}
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewSandboxWatcher creates a watcher over dir. Nothing happens until
// Start is called.
func NewSandboxWatcher(dir string, debounce time.Duration) (*SandboxWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 400 * time.Millisecond
	}
	return &SandboxWatcher{
		watcher:     w,
		dir:         dir,
		debounceDur: debounce,
		pending:     make(map[string]time.Time),
		changes:     make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Changes delivers one signal per settled burst of filesystem activity.
// The channel has a buffer of one; signals coalesce rather than queue.
func (sw *SandboxWatcher) Changes() <-chan struct{} {
	return sw.changes
}

// Start begins watching. Non-blocking; events flow until Stop.
func (sw *SandboxWatcher) Start(ctx context.Context) error {
	sw.mu.Lock()
	if sw.running {
		sw.mu.Unlock()
		return nil
	}
	sw.running = true
	sw.mu.Unlock()

	if err := sw.watcher.Add(sw.dir); err != nil {
		sw.mu.Lock()
		sw.running = false
		sw.mu.Unlock()
		return err
	}
	logging.Watch("Watching sandbox %s (debounce %s)", sw.dir, sw.debounceDur)

	go sw.run(ctx)
	return nil
}

// Stop halts the watcher and waits for its goroutine to exit.
func (sw *SandboxWatcher) Stop() {
	sw.mu.Lock()
	wasRunning := sw.running
	sw.running = false
	sw.mu.Unlock()

	if wasRunning {
		close(sw.stopCh)
		<-sw.doneCh
	}
	// Close regardless, so a watcher whose Start failed still releases
	// its fsnotify resources. fsnotify tolerates repeated Close calls.
	if err := sw.watcher.Close(); err != nil {
		logging.Watch("Error closing watcher: %v", err)
	}
}

func (sw *SandboxWatcher) run(ctx context.Context) {
	defer close(sw.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sw.stopCh:
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			sw.handleEvent(event)
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			logging.Watch("Watcher error: %v", err)
		case <-ticker.C:
			sw.flushSettled()
		}
	}
}

func (sw *SandboxWatcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	// Git's internal bookkeeping churns constantly; the lock file in
	// particular flaps on every status call.
	if strings.HasSuffix(event.Name, ".lock") {
		return
	}

	logging.WatchDebug("Event %s on %s", event.Op, event.Name)

	sw.mu.Lock()
	sw.pending[event.Name] = time.Now()
	sw.mu.Unlock()

	// fsnotify does not watch recursively; new subdirectories need their
	// own watch.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := sw.watcher.Add(event.Name); err == nil {
				logging.WatchDebug("Added watch on %s", event.Name)
			}
		}
	}
}

func (sw *SandboxWatcher) flushSettled() {
	sw.mu.Lock()
	now := time.Now()
	settled := false
	for path, at := range sw.pending {
		if now.Sub(at) >= sw.debounceDur {
			delete(sw.pending, path)
			settled = true
		}
	}
	sw.mu.Unlock()

	if settled {
		select {
		case sw.changes <- struct{}{}:
		default:
			// A signal is already waiting; coalesce.
		}
	}
}
