package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const serviceName = "diagram-api"

// Entry is one audited action.
type Entry struct {
	Action    string
	Entity    string
	EntityID  string
	UserID    string
	RequestIP string
	Details   map[string]any
}

// Recorder appends entries to the audit_log table.
type Recorder struct {
	db *sql.DB
}

func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db}
}

// EnsureSchema creates the audit_log table when missing.
func (r *Recorder) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
create table if not exists audit_log (
  id bigserial primary key,
  timestamp timestamptz not null,
  service text not null,
  user_id text,
  action text not null,
  entity text,
  entity_id text,
  request_ip text,
  details jsonb
)
`)
	if err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

// Record inserts one audit entry.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	details, _ := json.Marshal(e.Details)

	_, err := r.db.ExecContext(ctx, `
insert into audit_log (timestamp, service, user_id, action, entity, entity_id, request_ip, details)
values ($1, $2, $3, $4, $5, $6, $7, $8)
`,
		time.Now().UTC(),
		serviceName,
		nullable(e.UserID),
		e.Action,
		e.Entity,
		e.EntityID,
		e.RequestIP,
		details,
	)
	if err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
