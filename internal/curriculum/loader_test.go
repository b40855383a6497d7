package curriculum_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/p-n-ai/pai-lms/internal/content"
	"github.com/p-n-ai/pai-lms/internal/curriculum"
)

func TestLoader_LoadCourses(t *testing.T) {
	dir := setupTestCurriculum(t)

	loader, err := curriculum.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	courses := loader.AllCourses()
	if len(courses) != 1 {
		t.Fatalf("AllCourses() = %d courses, want 1", len(courses))
	}
}

func TestLoader_GetCourse(t *testing.T) {
	dir := setupTestCurriculum(t)

	loader, err := curriculum.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	course, found := loader.GetCourse("c_hospice")
	if !found {
		t.Fatal("GetCourse(c_hospice) not found")
	}
	if course.Title != "Understanding Hospice Care" {
		t.Errorf("Title = %q, want %q", course.Title, "Understanding Hospice Care")
	}
	if got := course.CECredits.String(); got != "2.5" {
		t.Errorf("CECredits = %s, want 2.5", got)
	}

	blocks := course.Modules[0].Blocks
	if len(blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(blocks))
	}
	quiz, ok := blocks[2].Quiz()
	if !ok {
		t.Fatalf("Blocks[2].Type() = %q, want quiz", blocks[2].Type())
	}
	if mc, ok := quiz.Questions[0].Kind.(content.MultipleChoice); !ok || mc.Correct != 1 {
		t.Errorf("q1 = %#v, want multiple-choice with correct 1", quiz.Questions[0].Kind)
	}
}

func TestLoader_GetCourse_NotFound(t *testing.T) {
	dir := setupTestCurriculum(t)

	loader, err := curriculum.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	_, found := loader.GetCourse("NONEXISTENT")
	if found {
		t.Error("GetCourse(NONEXISTENT) should not be found")
	}
}

func TestLoader_GetInstructorNotes(t *testing.T) {
	dir := setupTestCurriculum(t)

	loader, err := curriculum.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	notes, found := loader.GetInstructorNotes("c_hospice")
	if !found {
		t.Error("GetInstructorNotes(c_hospice) not found")
	}
	if notes == "" {
		t.Error("Instructor notes is empty")
	}
}

func TestLoader_SkipsInvalidCourses(t *testing.T) {
	dir := setupTestCurriculum(t)
	coursesDir := filepath.Join(dir, "courses", "hospice")

	files := map[string]string{
		// Quiz block carrying a text payload.
		"broken.course.yaml": `
id: c_broken
title: Broken
category: hospice
status: draft
modules:
  - id: m1
    courseId: c_broken
    status: draft
    passingScore: 80
    blocks:
      - id: b1
        moduleId: m1
        type: quiz
        data:
          content: "not a quiz"
`,
		"garbage.course.yaml": "id: [unterminated",
		"empty.course.yaml":   "",
		// Not a course file at all.
		"settings.yaml": "id: c_settings\ntitle: Settings\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(coursesDir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	loader, err := curriculum.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	courses := loader.AllCourses()
	if len(courses) != 1 || courses[0].ID != "c_hospice" {
		t.Errorf("AllCourses() = %d courses, want only c_hospice", len(courses))
	}
}

func TestLoader_EmptyDir(t *testing.T) {
	dir := t.TempDir()

	loader, err := curriculum.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	courses := loader.AllCourses()
	if len(courses) != 0 {
		t.Errorf("AllCourses() = %d, want 0 for empty dir", len(courses))
	}
}

func TestLoader_NotesWithoutCourse(t *testing.T) {
	dir := t.TempDir()

	os.WriteFile(filepath.Join(dir, "orphan.notes.md"), []byte("# Orphan notes"), 0o644)

	loader, err := curriculum.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	_, found := loader.GetInstructorNotes("orphan")
	if found {
		t.Error("Should not find instructor notes without matching course YAML")
	}
}

func TestLoader_ReturnsCopies(t *testing.T) {
	dir := setupTestCurriculum(t)

	loader, err := curriculum.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	c, _ := loader.GetCourse("c_hospice")
	c.Modules[0].Title = "changed"

	again, _ := loader.GetCourse("c_hospice")
	if again.Modules[0].Title == "changed" {
		t.Error("GetCourse() should return an independent copy")
	}
}

func setupTestCurriculum(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	coursesDir := filepath.Join(dir, "courses", "hospice")
	os.MkdirAll(coursesDir, 0o755)

	os.WriteFile(filepath.Join(coursesDir, "01-hospice.course.yaml"), []byte(`
id: c_hospice
title: "Understanding Hospice Care"
description: "Fundamental principles of palliative care."
category: hospice
ceCredits: 2.5
status: published
modules:
  - id: m_intro
    courseId: c_hospice
    title: "Introduction to Palliative Care"
    status: published
    passingScore: 80
    estimatedMinutes: 15
    blocks:
      - id: b1
        moduleId: m_intro
        type: heading
        data:
          content: "Welcome"
      - id: b2
        moduleId: m_intro
        type: text
        required: true
        data:
          content: "<p>Hospice care focuses on quality of life.</p>"
          variant: callout-info
      - id: b3
        moduleId: m_intro
        type: quiz
        required: true
        data:
          title: "Check your understanding"
          passingScore: 80
          questions:
            - id: q1
              type: multiple-choice
              question: "Primary goal of hospice care?"
              options: ["Cure", "Comfort", "Surgery"]
              correctAnswer: 1
              points: 10
            - id: q2
              type: fill-blank
              question: "The most common opioid is ____."
              correctAnswer: "Morphine"
              points: 10
`), 0o644)

	os.WriteFile(filepath.Join(coursesDir, "01-hospice.notes.md"), []byte(`# Understanding Hospice Care - Instructor Notes

## Overview
Frame the module around comfort goals, not cure.

## Common Misconceptions
| Misconception | Remediation |
|---|---|
| Hospice means giving up | Discuss goals-of-care conversations |
`), 0o644)

	return dir
}
