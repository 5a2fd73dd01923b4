package http

import (
	"context"

	"github.com/GrahamCHill/diagram-studio/internal/diagrams/domain"
)

// DiagramAPI is the service surface the HTTP handlers expose.
type DiagramAPI interface {
	Create(ctx context.Context, in domain.DiagramFields) (*domain.Diagram, error)
	List(ctx context.Context, limit, offset int) ([]domain.Diagram, error)
	Get(ctx context.Context, id string) (*domain.Diagram, error)
	GetContent(ctx context.Context, id string) (string, error)
	Update(ctx context.Context, id string, in domain.DiagramFields) (*domain.Diagram, error)
	Delete(ctx context.Context, id string) error
}

// Handler bundles the dependencies for diagram HTTP endpoints.
type Handler struct {
	svc DiagramAPI
}

func New(svc DiagramAPI) *Handler {
	return &Handler{svc: svc}
}
