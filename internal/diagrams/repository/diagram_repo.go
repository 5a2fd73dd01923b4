package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/GrahamCHill/diagram-studio/internal/diagrams/domain"
)

// DiagramRepository provides persistence operations for diagram metadata.
// Content lives in object storage; rows only carry the storage key.
type DiagramRepository struct {
	db *sql.DB
}

// NewDiagramRepository creates a new diagram repository.
func NewDiagramRepository(db *sql.DB) *DiagramRepository {
	return &DiagramRepository{db: db}
}

// EnsureSchema creates the diagrams table when missing.
func (r *DiagramRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
create table if not exists diagrams (
  id text primary key,
  title text not null,
  description text,
  s3_key text not null,
  diagram_type text not null default 'diagram',
  created_at timestamptz not null default now(),
  updated_at timestamptz not null default now(),
  created_by text,
  tags text[]
)
`)
	if err != nil {
		return fmt.Errorf("ensure diagrams schema: %w", err)
	}
	return nil
}

// Create inserts a new diagram row and returns it with store-assigned
// timestamps.
func (r *DiagramRepository) Create(ctx context.Context, id, storageKey string, in domain.DiagramFields) (*domain.Diagram, error) {
	d := domain.Diagram{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		StorageKey:  storageKey,
		DiagramType: "diagram",
		CreatedBy:   in.CreatedBy,
		Tags:        in.Tags,
	}

	err := r.db.QueryRowContext(ctx, `
insert into diagrams (id, title, description, s3_key, created_by, tags)
values ($1, $2, nullif($3, ''), $4, nullif($5, ''), $6)
returning created_at, updated_at
`, id, in.Title, in.Description, storageKey, in.CreatedBy, pq.Array(in.Tags),
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert diagram: %w", err)
	}

	return &d, nil
}

// List returns diagram summaries, newest first.
func (r *DiagramRepository) List(ctx context.Context, limit, offset int) ([]domain.Diagram, error) {
	rows, err := r.db.QueryContext(ctx, `
select id, title, coalesce(description, ''), s3_key, diagram_type,
       created_at, updated_at, coalesce(created_by, ''), tags
from diagrams
order by created_at desc
limit $1 offset $2
`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list diagrams: %w", err)
	}
	defer rows.Close()

	var items []domain.Diagram
	for rows.Next() {
		var d domain.Diagram
		var tags pq.StringArray
		err := rows.Scan(
			&d.ID, &d.Title, &d.Description, &d.StorageKey, &d.DiagramType,
			&d.CreatedAt, &d.UpdatedAt, &d.CreatedBy, &tags,
		)
		if err != nil {
			return nil, fmt.Errorf("scan diagram: %w", err)
		}
		d.Tags = tags
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diagrams: %w", err)
	}

	return items, nil
}

// Get returns one diagram row by id.
func (r *DiagramRepository) Get(ctx context.Context, id string) (*domain.Diagram, error) {
	var d domain.Diagram
	var tags pq.StringArray
	err := r.db.QueryRowContext(ctx, `
select id, title, coalesce(description, ''), s3_key, diagram_type,
       created_at, updated_at, coalesce(created_by, ''), tags
from diagrams
where id = $1
`, id).Scan(
		&d.ID, &d.Title, &d.Description, &d.StorageKey, &d.DiagramType,
		&d.CreatedAt, &d.UpdatedAt, &d.CreatedBy, &tags,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get diagram: %w", err)
	}
	d.Tags = tags

	return &d, nil
}

// StorageKey returns the current content key for a diagram.
func (r *DiagramRepository) StorageKey(ctx context.Context, id string) (string, error) {
	var key string
	err := r.db.QueryRowContext(ctx, `select s3_key from diagrams where id = $1`, id).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get storage key: %w", err)
	}
	return key, nil
}

// Update rewrites the editable fields and points the row at a new
// content key.
func (r *DiagramRepository) Update(ctx context.Context, id, storageKey string, in domain.DiagramFields) (*domain.Diagram, error) {
	res, err := r.db.ExecContext(ctx, `
update diagrams
set title = $1, description = nullif($2, ''), s3_key = $3,
    tags = $4, updated_at = now()
where id = $5
`, in.Title, in.Description, storageKey, pq.Array(in.Tags), id)
	if err != nil {
		return nil, fmt.Errorf("update diagram: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, domain.ErrNotFound
	}

	return r.Get(ctx, id)
}

// Delete removes a diagram row.
func (r *DiagramRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `delete from diagrams where id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete diagram: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
