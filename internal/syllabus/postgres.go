package syllabus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// LoadPostgres reads the courses table once and returns an in-memory catalog.
func LoadPostgres(ctx context.Context, pool *pgxpool.Pool) (*StaticCatalog, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	query, args, err := psql.Select("code", "name", "units").
		From("courses").
		OrderBy("code").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build course query: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	var courses []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.Code, &c.Name, &c.Units); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}

	c, err := NewStatic(courses)
	if err != nil {
		return nil, err
	}

	slog.Info("syllabus catalog loaded", "source", "postgres", "courses", c.Len())
	return c, nil
}

// SavePostgres upserts courses into the courses table. The batch is
// validated like NewStatic, so two entries normalizing to the same code fail
// with ErrDuplicateCode before anything is written.
func SavePostgres(ctx context.Context, pool *pgxpool.Pool, courses []Course) error {
	if pool == nil {
		return fmt.Errorf("pool is nil")
	}
	if len(courses) == 0 {
		return nil
	}

	batch, err := NewStatic(courses)
	if err != nil {
		return err
	}

	insert := psql.Insert("courses").Columns("code", "name", "units")
	for _, c := range batch.ordered {
		units := c.Units
		if units == nil {
			units = []string{}
		}
		insert = insert.Values(c.Code, c.Name, units)
	}
	query, args, err := insert.
		Suffix("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, units = EXCLUDED.units").
		ToSql()
	if err != nil {
		return fmt.Errorf("build course upsert: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert courses: %w", err)
	}
	return nil
}
