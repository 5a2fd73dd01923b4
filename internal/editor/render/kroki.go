package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/GrahamCHill/diagram-studio/internal/diagrams/domain"
)

// KrokiRenderer renders diagram source through a Kroki-compatible HTTP
// rendering service: POST {base}/{kind}/svg with the source as body.
type KrokiRenderer struct {
	baseURL     string
	diagramKind string
	httpClient  *http.Client
}

// NewKrokiRenderer creates a renderer for the given service options.
func NewKrokiRenderer(opts Options) *KrokiRenderer {
	if opts.DiagramKind == "" {
		opts.DiagramKind = "mermaid"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	return &KrokiRenderer{
		baseURL:     opts.BaseURL,
		diagramKind: opts.DiagramKind,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// Render submits the source to the rendering service and returns the SVG
// artifact. A 4xx response means the engine rejected the source.
func (r *KrokiRenderer) Render(ctx context.Context, source string) (Artifact, error) {
	reqURL := fmt.Sprintf("%s/%s/svg", r.baseURL, r.diagramKind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(source))
	if err != nil {
		return Artifact{}, &domain.TransportError{Op: "render request", Err: err}
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Artifact{}, &domain.TransportError{Op: "render", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Artifact{}, &domain.TransportError{Op: "read render response", Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return Artifact{SVG: body}, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		message := strings.TrimSpace(string(body))
		if message == "" {
			message = fmt.Sprintf("renderer rejected source with status %d", resp.StatusCode)
		}
		return Artifact{}, &Error{Message: message}
	default:
		return Artifact{}, &domain.TransportError{Op: "render", Err: fmt.Errorf("renderer returned status %d", resp.StatusCode)}
	}
}
