package enrollment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p-n-ai/pai-lms/internal/grading"
)

const dbTimeout = 5 * time.Second

const selectColumns = `id, user_id, course_id, progress, status, enrolled_at, last_accessed_at, score, quiz_answers`

// PostgresStore is a PostgreSQL-backed Store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed enrollment store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Create(ctx context.Context, e Enrollment) (Enrollment, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	answers, err := marshalAnswers(e.QuizAnswers)
	if err != nil {
		return Enrollment{}, false, err
	}

	created, err := scanEnrollment(s.pool.QueryRow(ctx,
		`INSERT INTO enrollments (id, user_id, course_id, progress, status, enrolled_at, last_accessed_at, score, quiz_answers)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb)
		 ON CONFLICT (user_id, course_id) DO NOTHING
		 RETURNING `+selectColumns,
		e.ID, e.UserID, e.CourseID, e.Progress, string(e.Status), e.EnrolledAt, e.LastAccessedAt, e.Score, answers,
	))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Enrollment{}, false, fmt.Errorf("insert enrollment: %w", err)
	}

	existing, err := s.FindByUserCourse(ctx, e.UserID, e.CourseID)
	if err != nil {
		return Enrollment{}, false, err
	}
	return existing, false, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	e, err := scanEnrollment(s.pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM enrollments WHERE id = $1`, id))
	if errors.Is(err, ErrNotFound) {
		return Enrollment{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

func (s *PostgresStore) FindByUserCourse(ctx context.Context, userID, courseID string) (Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	e, err := scanEnrollment(s.pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM enrollments WHERE user_id = $1 AND course_id = $2`,
		userID, courseID))
	if errors.Is(err, ErrNotFound) {
		return Enrollment{}, fmt.Errorf("%w: user %s in course %s", ErrNotFound, userID, courseID)
	}
	return e, err
}

func (s *PostgresStore) Update(ctx context.Context, e Enrollment) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	answers, err := marshalAnswers(e.QuizAnswers)
	if err != nil {
		return err
	}

	cmd, err := s.pool.Exec(ctx,
		`UPDATE enrollments
		 SET progress = $2, status = $3, last_accessed_at = $4, score = $5, quiz_answers = $6::jsonb
		 WHERE id = $1 AND user_id = $7 AND course_id = $8`,
		e.ID, e.Progress, string(e.Status), e.LastAccessedAt, e.Score, answers, e.UserID, e.CourseID,
	)
	if err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, e.ID)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var (
		where []string
		args  []any
	)
	add := func(col, val string) {
		if val == "" {
			return
		}
		args = append(args, val)
		where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("status", string(f.Status))
	add("user_id", f.UserID)
	add("course_id", f.CourseID)

	query := `SELECT ` + selectColumns + ` FROM enrollments`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY enrolled_at, id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query enrollments: %w", err)
	}
	defer rows.Close()

	out := []Enrollment{}
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollments: %w", err)
	}
	return out, nil
}

func scanEnrollment(row pgx.Row) (Enrollment, error) {
	var (
		e       Enrollment
		status  string
		answers []byte
	)
	err := row.Scan(&e.ID, &e.UserID, &e.CourseID, &e.Progress, &status,
		&e.EnrolledAt, &e.LastAccessedAt, &e.Score, &answers)
	if errors.Is(err, pgx.ErrNoRows) {
		return Enrollment{}, ErrNotFound
	}
	if err != nil {
		return Enrollment{}, fmt.Errorf("scan enrollment: %w", err)
	}
	e.Status = Status(status)
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &e.QuizAnswers); err != nil {
			return Enrollment{}, fmt.Errorf("enrollment %s: %w", e.ID, err)
		}
	}
	return e, nil
}

func marshalAnswers(a grading.Answers) (*string, error) {
	if a == nil {
		return nil, nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal quiz answers: %w", err)
	}
	s := string(raw)
	return &s, nil
}
