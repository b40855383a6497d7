package catalog_test

import (
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/p-n-ai/pai-lms/internal/catalog"
	"github.com/p-n-ai/pai-lms/internal/content"
	"github.com/p-n-ai/pai-lms/internal/testutil"
)

func sampleCourse(id string) content.Course {
	return content.Course{
		ID: id, Title: "Infection Control", Category: content.CategoryCompliance, Status: content.CourseDraft,
		Modules: []content.Module{{
			ID: id + "-m1", CourseID: id, Title: "Hand Hygiene", Status: content.ModuleDraft, PassingScore: 80,
			Blocks: []content.Block{
				{ID: "b1", ModuleID: id + "-m1", Required: true, Data: content.HeadingData{Content: "Five moments"}},
				{ID: "b2", ModuleID: id + "-m1", Required: true, Data: content.QuizData{
					Title: "Check", PassingScore: 80,
					Questions: []content.Question{{ID: "q1", Prompt: "Wash for at least 20 seconds?", Points: 10, Kind: content.TrueFalse{Correct: 1}}},
				}},
			},
		}},
	}
}

func TestPostgresStore(t *testing.T) {
	pool := testutil.StartPostgres(t)
	ctx := t.Context()

	store, err := catalog.NewPostgresStore(pool)
	if err != nil {
		t.Fatalf("NewPostgresStore() error = %v", err)
	}

	if err := store.Put(ctx, sampleCourse("c1")); err != nil {
		t.Fatalf("Put(c1) error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := store.Put(ctx, sampleCourse("c2")); err != nil {
		t.Fatalf("Put(c2) error = %v", err)
	}

	got, err := store.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	quiz, ok := got.Modules[0].Blocks[1].Quiz()
	if !ok || len(quiz.Questions) != 1 {
		t.Fatalf("quiz block = %+v", got.Modules[0].Blocks[1])
	}
	if tf, ok := quiz.Questions[0].Kind.(content.TrueFalse); !ok || tf.Correct != 1 {
		t.Errorf("question kind = %#v, want TrueFalse{1}", quiz.Questions[0].Kind)
	}

	updated := got
	updated.Status = content.CoursePublished
	if err := store.Put(ctx, updated); err != nil {
		t.Fatalf("Put(update) error = %v", err)
	}
	got, _ = store.Get(ctx, "c1")
	if !got.Published() {
		t.Errorf("Published() = false after update, want true")
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != "c2" {
		t.Errorf("List() = %v, want [c2 c1]", ids(list))
	}

	if err := store.Delete(ctx, "c2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "c2"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "c2"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("Delete(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestCachedStore(t *testing.T) {
	client := testutil.StartRedis(t)
	ctx := t.Context()

	inner := catalog.NewMemoryStore()
	store := catalog.NewCachedStore(inner, client, time.Minute)

	if err := store.Put(ctx, sampleCourse("c1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, err := store.Get(ctx, "c1"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if n, err := client.Exists(ctx, "lms:course:c1").Result(); err != nil || n != 1 {
		t.Fatalf("cached entries = %d, %v; want 1", n, err)
	}

	// A write through the cache evicts the entry.
	c := sampleCourse("c1")
	c.Title = "Renamed"
	if err := store.Put(ctx, c); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, err := store.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Renamed" {
		t.Errorf("Title = %q, want Renamed", got.Title)
	}

	// Garbage in the cache falls back to the inner store.
	if err := client.Set(ctx, "lms:course:c1", "not json", 0).Err(); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err = store.Get(ctx, "c1")
	if err != nil || got.Title != "Renamed" {
		t.Errorf("Get() = %q, %v; want Renamed from inner store", got.Title, err)
	}

	if err := store.Delete(ctx, "c1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "c1"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestCachedStore_UnreachableCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping unreachable host test in short mode")
	}

	client := redis.NewClient(&redis.Options{
		Addr:        "localhost:59999",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	ctx := t.Context()

	store := catalog.NewCachedStore(catalog.NewMemoryStore(), client, time.Minute)
	if err := store.Put(ctx, sampleCourse("c1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, err := store.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != "c1" {
		t.Errorf("ID = %q, want c1", got.ID)
	}
}
