package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GrahamCHill/diagram-studio/internal/diagrams/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/diagrams" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"2","title":"newer","diagram_type":"diagram"},
			{"id":"1","title":"older","diagram_type":"diagram"}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	items, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "2", items[0].ID)
	assert.Equal(t, "newer", items[0].Title)
	assert.Empty(t, items[0].ContentURL)
}

func TestClientListTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.List(context.Background())

	var terr *domain.TransportError
	require.True(t, errors.As(err, &terr))
}

func TestClientFetchContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/diagrams/42/content" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"content":"graph TD\n  A --> B"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	content, err := client.FetchContent(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "graph TD\n  A --> B", content)
}

func TestClientFetchContentNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Diagram not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchContent(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientCreate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		var fields domain.DiagramFields
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			t.Errorf("decode body: %v", err)
		}
		assert.Equal(t, "Flowchart", fields.Title)
		assert.Equal(t, "graph TD\n A --> B", fields.Content)
		assert.Equal(t, []string{"mermaid"}, fields.Tags)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"new-id","title":"Flowchart","diagram_type":"diagram"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	saved, err := client.Create(context.Background(), domain.DiagramFields{
		Title:   "Flowchart",
		Content: "graph TD\n A --> B",
		Tags:    []string{"mermaid"},
	})
	require.NoError(t, err)
	assert.Equal(t, "new-id", saved.ID)
}

func TestClientCreateValidationDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"Diagram title cannot be empty"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Create(context.Background(), domain.DiagramFields{})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Diagram title cannot be empty", verr.Detail)
}

func TestClientUpdateUsesBoundID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/api/diagrams/42" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":"42","title":"Renamed","diagram_type":"diagram"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	saved, err := client.Update(context.Background(), "42", domain.DiagramFields{Title: "Renamed", Content: "graph TD"})
	require.NoError(t, err)
	assert.Equal(t, "42", saved.ID)
}

func TestClientDelete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/diagrams/42" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"message":"Diagram deleted successfully"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	require.NoError(t, client.Delete(context.Background(), "42"))
}

func TestClientDeleteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"storage unavailable"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Delete(context.Background(), "42")

	var terr *domain.TransportError
	require.True(t, errors.As(err, &terr))
}

func TestClientUnreachableStore(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	_, err := client.List(context.Background())

	var terr *domain.TransportError
	require.True(t, errors.As(err, &terr))
}
