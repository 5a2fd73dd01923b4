package render

import (
	"context"
	"fmt"
	"html"
	"sync"
	"time"
)

// Artifact is the visual output of one render call. Placeholder is set
// when the artifact was synthesized from a render failure so the preview
// is never blank.
type Artifact struct {
	SVG         []byte
	Placeholder bool
}

// Renderer turns diagram source text into an artifact. Rendering is
// stateless per call and performs no retries.
type Renderer interface {
	Render(ctx context.Context, source string) (Artifact, error)
}

// Error is a rendering-engine rejection of the source text. The message
// is shown to the user on the placeholder artifact.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Options configures the process-wide renderer.
type Options struct {
	BaseURL     string
	DiagramKind string
	Timeout     time.Duration
}

var (
	configureOnce   sync.Once
	defaultRenderer Renderer
)

// Configure sets up the process-wide renderer. The first call wins;
// later calls are no-ops, so re-configuration is harmless. Must run
// before Default is used.
func Configure(opts Options) {
	configureOnce.Do(func() {
		defaultRenderer = NewKrokiRenderer(opts)
	})
}

// Default returns the process-wide renderer, or nil when Configure has
// not run yet.
func Default() Renderer {
	return defaultRenderer
}

// Placeholder builds the artifact shown when rendering fails.
func Placeholder(err error) Artifact {
	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="480" height="60"><text x="10" y="30" fill="red">Render error: %s</text></svg>`,
		html.EscapeString(err.Error()),
	)
	return Artifact{SVG: []byte(svg), Placeholder: true}
}
