package domain

import "time"

// Diagram is the persisted representation of a diagram. Listing and
// metadata reads return it without content; the source text is fetched
// separately per diagram so large definitions are never shipped with
// every list entry.
type Diagram struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StorageKey  string    `json:"s3_key,omitempty"`
	DiagramType string    `json:"diagram_type"`
	CreatedBy   string    `json:"created_by,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ContentURL  string    `json:"content_url,omitempty"`
}

// DiagramFields carries the user-editable fields for create and update.
type DiagramFields struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	CreatedBy   string   `json:"created_by,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}
