// Package curriculum loads seed course documents from the filesystem.
package curriculum

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/p-n-ai/pai-lms/internal/content"
)

// Loader loads and caches course documents from the filesystem.
type Loader struct {
	rootDir         string
	courses         map[string]content.Course
	instructorNotes map[string]string
	mu              sync.RWMutex
}

// NewLoader creates a new curriculum loader and loads all content.
func NewLoader(rootDir string) (*Loader, error) {
	l := &Loader{
		rootDir:         rootDir,
		courses:         make(map[string]content.Course),
		instructorNotes: make(map[string]string),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading curriculum: %w", err)
	}

	slog.Info("curriculum loaded", "courses", len(l.courses))
	return l, nil
}

// GetCourse returns a course by ID.
func (l *Loader) GetCourse(id string) (content.Course, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.courses[id]
	if !ok {
		return content.Course{}, false
	}
	return c.Clone(), true
}

// GetInstructorNotes returns the instructor notes for a course ID.
func (l *Loader) GetInstructorNotes(id string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n, ok := l.instructorNotes[id]
	return n, ok
}

// AllCourses returns all loaded courses ordered by ID.
func (l *Loader) AllCourses() []content.Course {
	l.mu.RLock()
	defer l.mu.RUnlock()
	courses := make([]content.Course, 0, len(l.courses))
	for _, c := range l.courses {
		courses = append(courses, c.Clone())
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses
}

func (l *Loader) loadAll() error {
	return filepath.Walk(l.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		switch {
		case strings.HasSuffix(path, NotesSuffix):
			return l.loadInstructorNotes(path)
		case strings.HasSuffix(path, CourseSuffix):
			return l.loadCourse(path)
		}
		return nil
	})
}

func (l *Loader) loadCourse(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	doc, err := yamlToJSON(data)
	if err != nil {
		slog.Warn("skipping invalid course YAML", "path", path, "error", err)
		return nil
	}
	course, err := content.DecodeCourse(doc)
	if err != nil {
		slog.Warn("skipping invalid course document", "path", path, "error", err)
		return nil
	}

	l.mu.Lock()
	if _, dup := l.courses[course.ID]; dup {
		slog.Warn("duplicate course id, later file wins", "path", path, "course_id", course.ID)
	}
	l.courses[course.ID] = course
	l.mu.Unlock()

	return nil
}

func (l *Loader) loadInstructorNotes(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Notes belong to the course file with the same stem.
	coursePath := strings.TrimSuffix(path, NotesSuffix) + CourseSuffix
	courseData, err := os.ReadFile(coursePath)
	if err != nil {
		return nil
	}

	var partial struct {
		ID string `yaml:"id"`
	}
	if err := yaml.Unmarshal(courseData, &partial); err != nil || partial.ID == "" {
		return nil
	}

	l.mu.Lock()
	l.instructorNotes[partial.ID] = string(data)
	l.mu.Unlock()

	return nil
}
