package session

import (
	"context"
	"strings"
	"sync"

	"github.com/GrahamCHill/diagram-studio/internal/diagrams/domain"
	"github.com/GrahamCHill/diagram-studio/internal/editor/render"
)

// DefaultSource is the placeholder shown in a fresh, unsaved session.
const DefaultSource = "graph TD\n  A --> B"

// UI is the confirmation/notification capability injected by the
// presentation layer. Confirm blocks for a yes/no answer; Notify is
// fire-and-forget.
type UI interface {
	Confirm(message string) bool
	Notify(message string)
}

// Store is the diagram store consumed by the session.
type Store interface {
	List(ctx context.Context) ([]domain.Diagram, error)
	FetchContent(ctx context.Context, id string) (string, error)
	Create(ctx context.Context, fields domain.DiagramFields) (*domain.Diagram, error)
	Update(ctx context.Context, id string, fields domain.DiagramFields) (*domain.Diagram, error)
	Delete(ctx context.Context, id string) error
}

// RenderStatus tracks the state of the preview for the current source.
type RenderStatus int

const (
	StatusIdle RenderStatus = iota
	StatusRendering
	StatusRendered
	StatusFailed
)

// Snapshot is the session state a presentation layer renders.
type Snapshot struct {
	BoundID       string
	Title         string
	Description   string
	Source        string
	RenderStatus  RenderStatus
	Artifact      render.Artifact
	RenderMessage string
	Listing       []domain.Diagram
}

// Options tunes session behavior. Zero values get sensible defaults.
type Options struct {
	Author   string
	Tags     []string
	OnChange func()
}

// Session owns the state of one editing session: the working copies of
// title, description and source, the identity of the persisted record
// they came from, the latest render result, and the cached listing.
// Failed operations report through the UI capability and leave state
// untouched so the user can correct and retry.
type Session struct {
	store    Store
	ui       UI
	pipeline *render.Pipeline
	author   string
	tags     []string
	onChange func()

	mu            sync.Mutex
	boundID       string // empty while unsaved/new
	title         string
	description   string
	source        string
	artifact      render.Artifact
	renderStatus  RenderStatus
	renderMessage string
	listing       []domain.Diagram
}

// New creates a session in the unsaved state with the default
// placeholder source and immediately renders it.
func New(store Store, renderer render.Renderer, ui UI, opts Options) *Session {
	if opts.Author == "" {
		opts.Author = "current_user"
	}
	if opts.Tags == nil {
		opts.Tags = []string{"mermaid"}
	}

	s := &Session{
		store:    store,
		ui:       ui,
		author:   opts.Author,
		tags:     opts.Tags,
		onChange: opts.OnChange,
		source:   DefaultSource,
	}
	s.pipeline = render.NewPipeline(renderer, s.applyRender)
	s.requestRender(DefaultSource)
	return s
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		BoundID:       s.boundID,
		Title:         s.title,
		Description:   s.description,
		Source:        s.source,
		RenderStatus:  s.renderStatus,
		Artifact:      s.artifact,
		RenderMessage: s.renderMessage,
		Listing:       s.listing,
	}
}

// SetTitle updates the working title. Local only.
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()
	s.notifyChange()
}

// SetDescription updates the working description. Local only.
func (s *Session) SetDescription(description string) {
	s.mu.Lock()
	s.description = description
	s.mu.Unlock()
	s.notifyChange()
}

// SetSource updates the working source text and issues a new render
// call. An older in-flight render can no longer win once this returns.
func (s *Session) SetSource(source string) {
	s.mu.Lock()
	s.source = source
	s.mu.Unlock()
	s.requestRender(source)
}

// Save validates the working fields and persists them: update when the
// session is bound to a record, create otherwise. On success the form is
// cleared back to a fresh session and the listing refreshed; on failure
// state is unchanged and the user may retry.
func (s *Session) Save(ctx context.Context) {
	s.mu.Lock()
	fields := domain.DiagramFields{
		Title:       strings.TrimSpace(s.title),
		Description: strings.TrimSpace(s.description),
		Content:     strings.TrimSpace(s.source),
		CreatedBy:   s.author,
		Tags:        s.tags,
	}
	boundID := s.boundID
	s.mu.Unlock()

	if fields.Title == "" {
		s.ui.Notify("Please enter a title")
		return
	}
	if fields.Content == "" {
		s.ui.Notify("Please enter diagram content")
		return
	}

	var saved *domain.Diagram
	var err error
	if boundID != "" {
		saved, err = s.store.Update(ctx, boundID, fields)
	} else {
		saved, err = s.store.Create(ctx, fields)
	}
	if err != nil {
		s.ui.Notify("Error saving diagram: " + domain.UserMessage(err))
		return
	}

	if boundID != "" {
		s.ui.Notify("Diagram updated: " + saved.Title)
	} else {
		s.ui.Notify("Diagram saved: " + saved.Title)
	}

	s.Reset()
	s.RefreshListing(ctx)
}

// Load fetches the content for a listed diagram and rebinds the session
// to it. On failure nothing is applied: title, description and source
// stay exactly as they were.
func (s *Session) Load(ctx context.Context, diagram domain.Diagram) {
	content, err := s.store.FetchContent(ctx, diagram.ID)
	if err != nil {
		s.ui.Notify("Error loading diagram: " + domain.UserMessage(err))
		return
	}

	s.mu.Lock()
	s.boundID = diagram.ID
	s.title = diagram.Title
	s.description = diagram.Description
	s.source = content
	s.mu.Unlock()
	s.requestRender(content)
}

// Delete removes a stored diagram after user confirmation. Deleting the
// record this session is bound to resets it to a fresh session; deleting
// any other record only refreshes the listing.
func (s *Session) Delete(ctx context.Context, id string) {
	if !s.ui.Confirm("Are you sure you want to delete this diagram?") {
		return
	}

	if err := s.store.Delete(ctx, id); err != nil {
		s.ui.Notify("Error deleting diagram: " + domain.UserMessage(err))
		return
	}
	s.ui.Notify("Diagram deleted successfully")
	s.RefreshListing(ctx)

	s.mu.Lock()
	wasBound := s.boundID == id
	s.mu.Unlock()
	if wasBound {
		s.Reset()
	}
}

// Reset unconditionally returns the session to the unsaved state with
// the default placeholder source, discarding unsaved edits.
func (s *Session) Reset() {
	s.mu.Lock()
	s.boundID = ""
	s.title = ""
	s.description = ""
	s.source = DefaultSource
	s.mu.Unlock()
	s.requestRender(DefaultSource)
}

// RefreshListing reloads the diagram summaries. On failure the previous
// listing is left untouched.
func (s *Session) RefreshListing(ctx context.Context) {
	items, err := s.store.List(ctx)
	if err != nil {
		s.ui.Notify("Error fetching diagrams: " + domain.UserMessage(err))
		return
	}

	s.mu.Lock()
	s.listing = items
	s.mu.Unlock()
	s.notifyChange()
}

func (s *Session) requestRender(source string) {
	s.mu.Lock()
	s.renderStatus = StatusRendering
	s.mu.Unlock()
	s.pipeline.Submit(source)
	s.notifyChange()
}

// applyRender runs on a render goroutine, only for the latest-issued
// call; the pipeline has already discarded superseded results.
func (s *Session) applyRender(res render.Result) {
	s.mu.Lock()
	s.artifact = res.Artifact
	if res.Err != nil {
		s.renderStatus = StatusFailed
		s.renderMessage = res.Err.Error()
	} else {
		s.renderStatus = StatusRendered
		s.renderMessage = ""
	}
	s.mu.Unlock()
	s.notifyChange()
}

func (s *Session) notifyChange() {
	if s.onChange != nil {
		s.onChange()
	}
}
