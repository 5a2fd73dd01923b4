package render

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GrahamCHill/diagram-studio/internal/diagrams/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKrokiRendererSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mermaid/svg" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "graph TD\n  A --> B" {
			t.Errorf("unexpected body: %q", body)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<svg>diagram</svg>"))
	}))
	defer server.Close()

	renderer := NewKrokiRenderer(Options{BaseURL: server.URL})
	art, err := renderer.Render(context.Background(), "graph TD\n  A --> B")
	require.NoError(t, err)
	assert.Equal(t, "<svg>diagram</svg>", string(art.SVG))
	assert.False(t, art.Placeholder)
}

func TestKrokiRendererRejectedSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("error 400: syntax error in graph\n"))
	}))
	defer server.Close()

	renderer := NewKrokiRenderer(Options{BaseURL: server.URL})
	_, err := renderer.Render(context.Background(), "graph TD\n  A -> ")

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "error 400: syntax error in graph", rerr.Message)
}

func TestKrokiRendererUnreachableService(t *testing.T) {
	renderer := NewKrokiRenderer(Options{BaseURL: "http://127.0.0.1:1"})
	_, err := renderer.Render(context.Background(), "graph TD")

	var terr *domain.TransportError
	require.True(t, errors.As(err, &terr))
}

func TestConfigureIsIdempotent(t *testing.T) {
	Configure(Options{BaseURL: "http://render.test"})
	first := Default()
	require.NotNil(t, first)

	Configure(Options{BaseURL: "http://other.test"})
	assert.Same(t, first.(*KrokiRenderer), Default().(*KrokiRenderer))
}
