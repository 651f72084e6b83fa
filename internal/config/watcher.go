package config

import (
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ProfileWatcher reloads agent profiles when their YAML files change, so a
// long-running chat session picks up prompt edits without a restart.
type ProfileWatcher struct {
	dir string

	mu      sync.RWMutex
	current *AgentProfiles

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewProfileWatcher loads the profiles in dir and starts watching for
// changes. If the directory cannot be loaded the compiled-in defaults are
// used. If the file watcher cannot be created the watcher degrades to a
// static snapshot rather than failing.
func NewProfileWatcher(dir string) (*ProfileWatcher, error) {
	if dir == "" {
		dir = filepath.Join("configs", "agents")
	}

	profiles, err := LoadAgentProfiles(dir)
	if err != nil {
		log.Printf("[Profiles] using built-in defaults: %v", err)
		profiles = DefaultAgentProfiles()
	}

	pw := &ProfileWatcher{
		dir:     dir,
		current: profiles,
		done:    make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return pw, nil
	}
	pw.watcher = watcher

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		pw.watcher = nil
		return pw, nil
	}

	go pw.watchLoop()

	return pw, nil
}

// watchLoop reloads profiles on create/write events for YAML files.
func (pw *ProfileWatcher) watchLoop() {
	for {
		select {
		case <-pw.done:
			return
		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".yaml") {
				continue
			}
			if event.Op&fsnotify.Create == 0 && event.Op&fsnotify.Write == 0 {
				continue
			}
			profiles, err := LoadAgentProfiles(pw.dir)
			if err != nil {
				// Keep the last good snapshot.
				log.Printf("[Profiles] reload failed, keeping previous profiles: %v", err)
				continue
			}
			pw.mu.Lock()
			pw.current = profiles
			pw.mu.Unlock()
			log.Printf("[Profiles] reloaded agent profiles from %s", pw.dir)
		case <-pw.watcher.Errors:
			// Ignore errors, keep watching
		}
	}
}

// Profiles returns the current profile snapshot.
func (pw *ProfileWatcher) Profiles() *AgentProfiles {
	pw.mu.RLock()
	defer pw.mu.RUnlock()
	return pw.current
}

// Close stops the watcher.
func (pw *ProfileWatcher) Close() {
	close(pw.done)
	if pw.watcher != nil {
		pw.watcher.Close()
	}
}
