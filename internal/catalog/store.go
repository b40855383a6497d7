// Package catalog stores course documents and applies catalog-level edits:
// creating courses, saving modules and toggling publication.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/p-n-ai/pai-lms/internal/content"
)

// ErrNotFound is returned when a course does not exist.
var ErrNotFound = errors.New("course not found")

// Store persists whole course documents. Put replaces the stored document.
type Store interface {
	Get(ctx context.Context, id string) (content.Course, error)
	// List returns every course, newest first.
	List(ctx context.Context) ([]content.Course, error)
	Put(ctx context.Context, c content.Course) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	course content.Course
	seq    int
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu      sync.RWMutex
	courses map[string]memoryEntry
	seq     int
}

// NewMemoryStore creates an empty in-memory course store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{courses: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (content.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.courses[id]
	if !ok {
		return content.Course{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e.course.Clone(), nil
}

func (s *MemoryStore) List(_ context.Context) ([]content.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]memoryEntry, 0, len(s.courses))
	for _, e := range s.courses {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq > entries[j].seq })

	out := make([]content.Course, len(entries))
	for i, e := range entries {
		out[i] = e.course.Clone()
	}
	return out, nil
}

func (s *MemoryStore) Put(_ context.Context, c content.Course) error {
	if c.ID == "" {
		return fmt.Errorf("%w: course id is required", content.ErrInvalidDocument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.courses[c.ID]
	if !ok {
		s.seq++
		e.seq = s.seq
	}
	e.course = c.Clone()
	s.courses[c.ID] = e
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.courses, id)
	return nil
}
