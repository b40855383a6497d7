package enrollment

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Status   Status
	UserID   string
	CourseID string
}

func (f Filter) match(e Enrollment) bool {
	return (f.Status == "" || e.Status == f.Status) &&
		(f.UserID == "" || e.UserID == f.UserID) &&
		(f.CourseID == "" || e.CourseID == f.CourseID)
}

// Store persists enrollments. There is at most one enrollment per user and
// course.
type Store interface {
	// Create inserts e unless the user already has an enrollment in the
	// course, in which case the existing one is returned with false.
	Create(ctx context.Context, e Enrollment) (Enrollment, bool, error)
	Get(ctx context.Context, id string) (Enrollment, error)
	FindByUserCourse(ctx context.Context, userID, courseID string) (Enrollment, error)
	// Update replaces the stored enrollment. The last write wins.
	Update(ctx context.Context, e Enrollment) error
	List(ctx context.Context, f Filter) ([]Enrollment, error)
}

type pairKey struct {
	userID   string
	courseID string
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]Enrollment
	byPair map[pairKey]string
}

// NewMemoryStore creates an empty in-memory enrollment store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]Enrollment),
		byPair: make(map[pairKey]string),
	}
}

func (s *MemoryStore) Create(_ context.Context, e Enrollment) (Enrollment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{e.UserID, e.CourseID}
	if id, ok := s.byPair[key]; ok {
		return s.byID[id].Clone(), false, nil
	}
	if _, ok := s.byID[e.ID]; ok {
		return Enrollment{}, false, fmt.Errorf("duplicate enrollment id %s", e.ID)
	}
	s.byID[e.ID] = e.Clone()
	s.byPair[key] = e.ID
	return e.Clone(), true, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.byID[id]
	if !ok {
		return Enrollment{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e.Clone(), nil
}

func (s *MemoryStore) FindByUserCourse(_ context.Context, userID, courseID string) (Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPair[pairKey{userID, courseID}]
	if !ok {
		return Enrollment{}, fmt.Errorf("%w: user %s in course %s", ErrNotFound, userID, courseID)
	}
	return s.byID[id].Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, e Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.byID[e.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, e.ID)
	}
	if old.UserID != e.UserID || old.CourseID != e.CourseID {
		return fmt.Errorf("enrollment %s: user and course cannot change", e.ID)
	}
	s.byID[e.ID] = e.Clone()
	return nil
}

func (s *MemoryStore) List(_ context.Context, f Filter) ([]Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Enrollment{}
	for _, e := range s.byID {
		if f.match(e) {
			out = append(out, e.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EnrolledAt.Equal(out[j].EnrolledAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].EnrolledAt.Before(out[j].EnrolledAt)
	})
	return out, nil
}
