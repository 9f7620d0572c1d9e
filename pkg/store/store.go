// Package store provides the persistence collaborators consumed by the
// notification renderer: template lookup by name and the flat app
// settings map. Backends are a thread-safe in-memory store and a YAML/
// JSON file loader that feeds it.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/fleetdesk/notify/pkg/notification"
)

// Common errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrFileNotFound = errors.New("template file not found")
	ErrInvalidFile  = errors.New("invalid template file")
)

// MemoryStore holds templates and settings in memory. It implements
// notification.TemplateStore and notification.SettingsStore and is safe
// for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	templates map[string]*notification.Template // keyed by ID
	settings  map[string]any
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		templates: make(map[string]*notification.Template),
		settings:  make(map[string]any),
	}
}

// FetchTemplate returns the active template with the given name, or
// (nil, nil) when no active template matches. When several active
// templates share a name, the default one wins; ties break by ID so
// lookup stays deterministic.
func (s *MemoryStore) FetchTemplate(_ context.Context, name string) (*notification.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *notification.Template
	for _, t := range s.templates {
		if t.Name != name || !t.IsActive {
			continue
		}
		if best == nil || betterCandidate(t, best) {
			best = t
		}
	}
	if best == nil {
		return nil, nil
	}
	copied := *best
	return &copied, nil
}

func betterCandidate(t, best *notification.Template) bool {
	if t.IsDefault != best.IsDefault {
		return t.IsDefault
	}
	return t.ID < best.ID
}

// FetchSettings returns a copy of the settings map.
func (s *MemoryStore) FetchSettings(_ context.Context) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make(map[string]any, len(s.settings))
	for k, v := range s.settings {
		copied[k] = v
	}
	return copied, nil
}

// Put adds or replaces a template. Templates without an ID get a
// generated UUID; the assigned ID is returned.
func (s *MemoryStore) Put(t notification.Template) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.templates[t.ID] = &t
	return t.ID
}

// Delete removes a template by ID.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[id]; !ok {
		return ErrNotFound
	}
	delete(s.templates, id)
	return nil
}

// List returns all templates, active or not, sorted by name then ID.
func (s *MemoryStore) List() []notification.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]notification.Template, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SetSettings replaces the settings map.
func (s *MemoryStore) SetSettings(settings map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = make(map[string]any, len(settings))
	for k, v := range settings {
		s.settings[k] = v
	}
}
