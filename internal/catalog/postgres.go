package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p-n-ai/pai-lms/internal/content"
)

const dbTimeout = 5 * time.Second

// PostgresStore keeps one JSONB document per course.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed course store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (content.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT document FROM courses WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return content.Course{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return content.Course{}, fmt.Errorf("query course: %w", err)
	}
	c, err := content.DecodeCourse(doc)
	if err != nil {
		return content.Course{}, fmt.Errorf("stored course %s: %w", id, err)
	}
	return c, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]content.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT id, document FROM courses ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	out := []content.Course{}
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		c, err := content.DecodeCourse(doc)
		if err != nil {
			return nil, fmt.Errorf("stored course %s: %w", id, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Put(ctx context.Context, c content.Course) error {
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal course %s: %w", c.ID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err = s.pool.Exec(ctx,
		`INSERT INTO courses (id, status, document)
		 VALUES ($1, $2, $3::jsonb)
		 ON CONFLICT (id) DO UPDATE
		 SET status = EXCLUDED.status, document = EXCLUDED.document, updated_at = now()`,
		c.ID, string(c.Status), string(doc),
	)
	if err != nil {
		return fmt.Errorf("upsert course: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cmd, err := s.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
