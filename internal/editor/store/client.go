package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/GrahamCHill/diagram-studio/internal/diagrams/domain"
)

// DefaultTimeout bounds every store round-trip; an expired deadline
// surfaces as a TransportError.
const DefaultTimeout = 30 * time.Second

// Client is a typed client for the diagram store HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a store client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// List fetches diagram summaries, newest first. Content is omitted.
func (c *Client) List(ctx context.Context) ([]domain.Diagram, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/diagrams", nil)
	if err != nil {
		return nil, &domain.TransportError{Op: "list diagrams", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: "list diagrams", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.errorFromResponse("list diagrams", resp)
	}

	var items []domain.Diagram
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, &domain.TransportError{Op: "decode diagram list", Err: err}
	}
	return items, nil
}

// FetchContent fetches the source text for a single diagram.
func (c *Client) FetchContent(ctx context.Context, id string) (string, error) {
	reqURL := fmt.Sprintf("%s/api/diagrams/%s/content", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", &domain.TransportError{Op: "fetch content", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.TransportError{Op: "fetch content", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.errorFromResponse("fetch content", resp)
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &domain.TransportError{Op: "decode content", Err: err}
	}
	return body.Content, nil
}

// Create persists a new diagram and returns the stored record.
func (c *Client) Create(ctx context.Context, fields domain.DiagramFields) (*domain.Diagram, error) {
	return c.save(ctx, http.MethodPost, c.baseURL+"/api/diagrams", fields)
}

// Update re-persists an existing diagram under the same id.
func (c *Client) Update(ctx context.Context, id string, fields domain.DiagramFields) (*domain.Diagram, error) {
	return c.save(ctx, http.MethodPut, fmt.Sprintf("%s/api/diagrams/%s", c.baseURL, id), fields)
}

func (c *Client) save(ctx context.Context, method, reqURL string, fields domain.DiagramFields) (*domain.Diagram, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, &domain.TransportError{Op: "marshal diagram", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.TransportError{Op: "save diagram", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: "save diagram", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.errorFromResponse("save diagram", resp)
	}

	var saved domain.Diagram
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		return nil, &domain.TransportError{Op: "decode saved diagram", Err: err}
	}
	return &saved, nil
}

// Delete removes a diagram from the store.
func (c *Client) Delete(ctx context.Context, id string) error {
	reqURL := fmt.Sprintf("%s/api/diagrams/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, reqURL, nil)
	if err != nil {
		return &domain.TransportError{Op: "delete diagram", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransportError{Op: "delete diagram", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.errorFromResponse("delete diagram", resp)
	}
	return nil
}

// errorFromResponse maps a non-2xx store response onto the error
// taxonomy. Server detail messages are carried through verbatim.
func (c *Client) errorFromResponse(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	detail := ""
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		detail = parsed.Detail
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		if detail == "" {
			detail = fmt.Sprintf("request rejected with status %d", resp.StatusCode)
		}
		return &domain.ValidationError{Detail: detail}
	default:
		return &domain.TransportError{Op: op, Err: fmt.Errorf("store returned status %d: %s", resp.StatusCode, string(body))}
	}
}
