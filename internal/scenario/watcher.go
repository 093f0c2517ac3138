// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scenario

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must be quiet before a change is
// reported. Editors often write a file in several steps.
const DefaultDebounce = 250 * time.Millisecond

// =============================================================================
// FILE WATCHER INTERFACE
// =============================================================================

// FileWatcher reports changes to one scenario file.
type FileWatcher interface {
	// Changes delivers the file path after each settled change.
	Changes() <-chan string

	// Close stops watching and releases resources.
	Close() error
}

// Watch starts a watcher for path, preferring fsnotify and falling back to
// polling when no notification backend is available.
func Watch(path string, debounce time.Duration) (FileWatcher, error) {
	fw, err := NewFsnotifyWatcher(path, debounce)
	if err == nil {
		return fw, nil
	}
	return NewPollingWatcher(path, 2*time.Second)
}

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// FsnotifyWatcher watches the file's directory, so editors that save by
// renaming a temp file over the original are still seen.
type FsnotifyWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	changes  chan string

	mu      sync.Mutex
	pending time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFsnotifyWatcher starts watching path.
func NewFsnotifyWatcher(path string, debounce time.Duration) (*FsnotifyWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	fw := &FsnotifyWatcher{
		path:     abs,
		watcher:  watcher,
		debounce: debounce,
		changes:  make(chan string, 1),
		ctx:      ctx,
		cancel:   cancel,
	}

	fw.wg.Add(2)
	go fw.processEvents()
	go fw.processPending()
	return fw, nil
}

// Changes implements FileWatcher.
func (fw *FsnotifyWatcher) Changes() <-chan string {
	return fw.changes
}

// processEvents records a pending change for writes to the watched file.
func (fw *FsnotifyWatcher) processEvents() {
	defer fw.wg.Done()
	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				fw.mu.Lock()
				fw.pending = time.Now()
				fw.mu.Unlock()
			}

		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// processPending reports a change once it has been quiet for debounce.
func (fw *FsnotifyWatcher) processPending() {
	defer fw.wg.Done()
	ticker := time.NewTicker(fw.debounce / 4)
	defer ticker.Stop()

	for {
		select {
		case <-fw.ctx.Done():
			return

		case now := <-ticker.C:
			fw.mu.Lock()
			ready := !fw.pending.IsZero() && now.Sub(fw.pending) >= fw.debounce
			if ready {
				fw.pending = time.Time{}
			}
			fw.mu.Unlock()

			if ready {
				notify(fw.changes, fw.path)
			}
		}
	}
}

// Close stops watching and releases resources.
func (fw *FsnotifyWatcher) Close() error {
	fw.cancel()
	err := fw.watcher.Close()
	fw.wg.Wait()
	close(fw.changes)
	return err
}

// =============================================================================
// POLLING WATCHER (FALLBACK)
// =============================================================================

// PollingWatcher detects changes by comparing modification times.
type PollingWatcher struct {
	path     string
	interval time.Duration
	changes  chan string
	modTime  time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPollingWatcher starts polling path every interval.
func NewPollingWatcher(path string, interval time.Duration) (*PollingWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	pw := &PollingWatcher{
		path:     abs,
		interval: interval,
		changes:  make(chan string, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
	if info, err := os.Stat(abs); err == nil {
		pw.modTime = info.ModTime()
	}

	pw.wg.Add(1)
	go pw.poll()
	return pw, nil
}

// Changes implements FileWatcher.
func (pw *PollingWatcher) Changes() <-chan string {
	return pw.changes
}

func (pw *PollingWatcher) poll() {
	defer pw.wg.Done()
	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-pw.ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(pw.path)
			if err != nil {
				continue
			}
			if !info.ModTime().Equal(pw.modTime) {
				pw.modTime = info.ModTime()
				notify(pw.changes, pw.path)
			}
		}
	}
}

// Close stops polling.
func (pw *PollingWatcher) Close() error {
	pw.cancel()
	pw.wg.Wait()
	close(pw.changes)
	return nil
}

// notify delivers path without blocking. A change already queued covers
// this one.
func notify(ch chan string, path string) {
	select {
	case ch <- path:
	default:
	}
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// ChangedMsg reports that the scenario file settled after an edit.
type ChangedMsg struct {
	Path string
}

// WaitForChange returns a command that blocks until the watcher reports a
// change. Re-issue it after handling each ChangedMsg. It returns nil when
// the watcher is closed.
func WaitForChange(w FileWatcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-w.Changes()
		if !ok {
			return nil
		}
		return ChangedMsg{Path: path}
	}
}
