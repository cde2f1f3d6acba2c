// Package figure implements the Figure repository using PostgreSQL.
// It provides the CRUD and lookup operations the catalog service is built
// on; schema lives in migrations/0001_create_figures.sql.
package figure

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/figstore/internal/adapter/postgres"
	"github.com/heartmarshall/figstore/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const table = "figures"

var columns = []string{
	"id", "code", "sequence_id", "name", "category",
	"price", "release_date", "created_at", "updated_at",
}

// Repo provides figure persistence backed by PostgreSQL.
// Sequence ids are stamped at insert time from the shared generator.
type Repo struct {
	pool   *pgxpool.Pool
	seqGen *domain.SequenceGenerator
}

// New creates a new figure repository.
func New(pool *pgxpool.Pool, seqGen *domain.SequenceGenerator) *Repo {
	return &Repo{pool: pool, seqGen: seqGen}
}

// GetAll returns every figure ordered by id.
// Returns an empty slice (not nil) when the catalog is empty.
func (r *Repo) GetAll(ctx context.Context) ([]*domain.Figure, error) {
	query := psql.Select(columns...).From(table).OrderBy("id")
	return r.list(ctx, query, "get all figures")
}

// GetByID returns a figure by primary key.
// Returns domain.ErrNotFound if the id does not exist.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Figure, error) {
	query := psql.Select(columns...).From(table).Where(sq.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	f, err := scanFigure(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, postgres.MapError(err, "figure", id)
	}
	return f, nil
}

// GetByCode returns a figure by its unique external code.
// Returns domain.ErrNotFound if the code does not exist.
func (r *Repo) GetByCode(ctx context.Context, code uuid.UUID) (*domain.Figure, error) {
	query := psql.Select(columns...).From(table).Where(sq.Eq{"code": code})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	f, err := scanFigure(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, postgres.MapError(err, "figure", code)
	}
	return f, nil
}

// GetByCategory returns all figures of the given category ordered by id.
func (r *Repo) GetByCategory(ctx context.Context, category domain.Category) ([]*domain.Figure, error) {
	query := psql.Select(columns...).From(table).
		Where(sq.Eq{"category": category.String()}).
		OrderBy("id")
	return r.list(ctx, query, "get figures by category")
}

// GetByReleaseYear returns all figures released in the given year ordered by id.
func (r *Repo) GetByReleaseYear(ctx context.Context, year int) ([]*domain.Figure, error) {
	query := psql.Select(columns...).From(table).
		Where(sq.Expr("EXTRACT(YEAR FROM release_date) = ?", year)).
		OrderBy("id")
	return r.list(ctx, query, "get figures by release year")
}

// Create inserts a figure, assigning its storage id, sequence id and
// timestamps. The passed figure is filled in place with the assigned values.
func (r *Repo) Create(ctx context.Context, f *domain.Figure) error {
	f.SequenceID = r.seqGen.Next()

	query := psql.Insert(table).
		Columns("code", "sequence_id", "name", "category", "price", "release_date").
		Values(f.Code, f.SequenceID, f.Name, f.Category.String(), f.Price, f.ReleaseDate).
		Suffix("RETURNING id, created_at, updated_at")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	row := r.pool.QueryRow(ctx, sqlStr, args...)
	if err := row.Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return postgres.MapError(err, "figure", f.Code)
	}
	return nil
}

// updateQuery builds the UPDATE for a figure's mutable fields.
// updated_at is stamped with the database's now() so it comes from the
// same clock as the insert defaults; created_at and updated_at must never
// run backwards relative to each other under app/DB clock skew.
func updateQuery(f *domain.Figure) sq.UpdateBuilder {
	return psql.Update(table).
		Set("name", f.Name).
		Set("category", f.Category.String()).
		Set("price", f.Price).
		Set("release_date", f.ReleaseDate).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": f.ID}).
		Suffix("RETURNING " + columnList())
}

// Update rewrites the mutable fields of a figure and bumps updated_at.
// Returns the persisted row; domain.ErrNotFound if the id does not exist.
func (r *Repo) Update(ctx context.Context, f *domain.Figure) (*domain.Figure, error) {
	sqlStr, args, err := updateQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	updated, err := scanFigure(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, postgres.MapError(err, "figure", f.ID)
	}
	return updated, nil
}

// Delete removes a figure by id. Returns domain.ErrNotFound if absent.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	query := psql.Delete(table).Where(sq.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return postgres.MapError(err, "figure", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("figure %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DeleteAll removes every figure.
func (r *Repo) DeleteAll(ctx context.Context) error {
	sqlStr, args, err := psql.Delete(table).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("delete all figures: %w", err)
	}
	return nil
}

func (r *Repo) list(ctx context.Context, query sq.SelectBuilder, op string) ([]*domain.Figure, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	figures := []*domain.Figure{}
	for rows.Next() {
		f, err := scanFigure(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		figures = append(figures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return figures, nil
}

func scanFigure(row pgx.Row) (*domain.Figure, error) {
	var (
		f        domain.Figure
		category string
	)
	err := row.Scan(
		&f.ID, &f.Code, &f.SequenceID, &f.Name, &category,
		&f.Price, &f.ReleaseDate, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	f.Category = domain.Category(category)
	return &f, nil
}

func columnList() string {
	s := columns[0]
	for _, c := range columns[1:] {
		s += ", " + c
	}
	return s
}
