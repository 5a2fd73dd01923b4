package tui

import (
	"context"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/GrahamCHill/diagram-studio/config"
	"github.com/GrahamCHill/diagram-studio/internal/editor/render"
	"github.com/GrahamCHill/diagram-studio/internal/editor/session"
)

type focusArea int

const (
	focusList focusArea = iota
	focusTitle
	focusDesc
	focusSource
)

type (
	stateChangedMsg struct{}
	notifyMsg       string
)

type confirmRequest struct {
	message string
	reply   chan bool
}

type confirmRequestMsg *confirmRequest

// teaUI bridges the session's confirm/notify capability into the
// running bubbletea program. Messages sent before the program starts
// are dropped; Init re-reads the session snapshot anyway.
type teaUI struct {
	mu sync.Mutex
	p  *tea.Program
}

func (u *teaUI) attach(p *tea.Program) {
	u.mu.Lock()
	u.p = p
	u.mu.Unlock()
}

func (u *teaUI) send(msg tea.Msg) bool {
	u.mu.Lock()
	p := u.p
	u.mu.Unlock()
	if p == nil {
		return false
	}
	p.Send(msg)
	return true
}

func (u *teaUI) Notify(message string) {
	u.send(notifyMsg(message))
}

func (u *teaUI) Confirm(message string) bool {
	req := &confirmRequest{message: message, reply: make(chan bool, 1)}
	if !u.send(confirmRequestMsg(req)) {
		return false
	}
	return <-req.reply
}

// Model is the studio editor: a saved-diagrams sidebar, title and
// description inputs, the source editor, and a status bar. Every
// decision is delegated to the editing session; the model only reads
// snapshots and forwards input.
type Model struct {
	session     *session.Session
	snap        session.Snapshot
	previewPath string

	titleInput textinput.Model
	descInput  textinput.Model
	sourceArea textarea.Model

	focus   focusArea
	cursor  int
	status  string
	confirm *confirmRequest
	width   int
	height  int
}

func newModel(sess *session.Session, previewPath string) Model {
	ti := textinput.New()
	ti.Placeholder = "Diagram Title"
	ti.CharLimit = 200

	di := textinput.New()
	di.Placeholder = "Description (optional)"
	di.CharLimit = 500

	ta := textarea.New()
	ta.Placeholder = "Edit diagram code here..."
	ta.SetValue(session.DefaultSource)
	ta.Focus()

	m := Model{
		session:     sess,
		snap:        sess.Snapshot(),
		previewPath: previewPath,
		titleInput:  ti,
		descInput:   di,
		sourceArea:  ta,
		focus:       focusSource,
		width:       120,
		height:      30,
	}
	return m
}

func (m Model) Init() tea.Cmd {
	sess := m.session
	return tea.Batch(
		textarea.Blink,
		func() tea.Msg {
			sess.RefreshListing(context.Background())
			return nil
		},
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case stateChangedMsg:
		m.pullSnapshot()
		return m, nil

	case notifyMsg:
		m.status = string(msg)
		return m, nil

	case confirmRequestMsg:
		m.confirm = msg
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forwardToFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		switch msg.String() {
		case "y", "Y":
			m.confirm.reply <- true
			m.confirm = nil
		case "n", "N", "esc":
			m.confirm.reply <- false
			m.confirm = nil
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.cycleFocus(1)
		return m, nil
	case "shift+tab":
		m.cycleFocus(-1)
		return m, nil
	case "ctrl+s":
		sess := m.session
		return m, func() tea.Msg {
			sess.Save(context.Background())
			return nil
		}
	case "ctrl+n":
		sess := m.session
		return m, func() tea.Msg {
			sess.Reset()
			return nil
		}
	case "ctrl+r":
		sess := m.session
		return m, func() tea.Msg {
			sess.RefreshListing(context.Background())
			return nil
		}
	}

	if m.focus == focusList {
		return m.handleListKey(msg)
	}
	return m.forwardToFocused(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.snap.Listing)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(m.snap.Listing) {
			sess := m.session
			record := m.snap.Listing[m.cursor]
			return m, func() tea.Msg {
				sess.Load(context.Background(), record)
				return nil
			}
		}
	case "d":
		if m.cursor < len(m.snap.Listing) {
			sess := m.session
			id := m.snap.Listing[m.cursor].ID
			return m, func() tea.Msg {
				sess.Delete(context.Background(), id)
				return nil
			}
		}
	}
	return m, nil
}

func (m Model) forwardToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		m.titleInput, cmd = m.titleInput.Update(msg)
		m.session.SetTitle(m.titleInput.Value())
	case focusDesc:
		m.descInput, cmd = m.descInput.Update(msg)
		m.session.SetDescription(m.descInput.Value())
	case focusSource:
		before := m.sourceArea.Value()
		m.sourceArea, cmd = m.sourceArea.Update(msg)
		if m.sourceArea.Value() != before {
			m.session.SetSource(m.sourceArea.Value())
		}
	}
	return m, cmd
}

func (m *Model) cycleFocus(dir int) {
	m.titleInput.Blur()
	m.descInput.Blur()
	m.sourceArea.Blur()

	m.focus = focusArea((int(m.focus) + dir + 4) % 4)
	switch m.focus {
	case focusTitle:
		m.titleInput.Focus()
	case focusDesc:
		m.descInput.Focus()
	case focusSource:
		m.sourceArea.Focus()
	}
}

// pullSnapshot syncs widget contents with the session after loads,
// resets, and render completions.
func (m *Model) pullSnapshot() {
	m.snap = m.session.Snapshot()

	if m.titleInput.Value() != m.snap.Title {
		m.titleInput.SetValue(m.snap.Title)
	}
	if m.descInput.Value() != m.snap.Description {
		m.descInput.SetValue(m.snap.Description)
	}
	if m.sourceArea.Value() != m.snap.Source {
		m.sourceArea.SetValue(m.snap.Source)
	}
	if m.cursor >= len(m.snap.Listing) {
		m.cursor = max(0, len(m.snap.Listing)-1)
	}

	if len(m.snap.Artifact.SVG) > 0 && m.previewPath != "" {
		if err := os.WriteFile(m.previewPath, m.snap.Artifact.SVG, 0o644); err != nil {
			m.status = "Could not write preview: " + err.Error()
		}
	}
}

func (m *Model) resize() {
	inner := m.width - sidebarWidth - 6
	if inner < 20 {
		inner = 20
	}
	m.titleInput.Width = inner
	m.descInput.Width = inner
	m.sourceArea.SetWidth(inner)

	bodyHeight := m.height - 8
	if bodyHeight < 5 {
		bodyHeight = 5
	}
	m.sourceArea.SetHeight(bodyHeight)
}

// Run wires the editing session to a terminal program and blocks until
// the user quits.
func Run(store session.Store, renderer render.Renderer, cfg config.StudioConfig) error {
	ui := &teaUI{}
	sess := session.New(store, renderer, ui, session.Options{
		Author: cfg.Author,
		OnChange: func() {
			ui.send(stateChangedMsg{})
		},
	})

	p := tea.NewProgram(newModel(sess, cfg.PreviewPath), tea.WithAltScreen())
	ui.attach(p)

	_, err := p.Run()
	return err
}
