package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"toydbclient/internal/config"
	"toydbclient/internal/domain"
	"toydbclient/internal/eventbus"
	"toydbclient/internal/logic"
	"toydbclient/internal/protocol"
	"toydbclient/internal/ui/views"
)

// Focus identifies which pane receives keys
type Focus int

const (
	FocusEditor Focus = iota
	FocusResponse
)

const (
	defaultWidth        = 80
	defaultHeight       = 24
	defaultEditorHeight = 8
	minResponseHeight   = 3
)

// Model is the query screen: an editor for the draft, an execute key and a
// read-only pane showing the shared response holder.
type Model struct {
	bus      eventbus.EventBus
	holder   logic.ResponseStore
	endpoint string

	editor   textarea.Model
	response viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	renderer *views.Renderer

	draft        string // replaced on every edit
	focus        Focus
	pretty       bool
	spinning     bool
	note         string // transient status note, e.g. pager errors
	configSource string
	editorHeight int
	width        int
	height       int
}

// NewModel creates the query screen. holder is shared with whoever else reads responses.
func NewModel(bus eventbus.EventBus, cfg *config.Config, holder logic.ResponseStore) *Model {
	editorHeight := cfg.UISettings.EditorHeight
	if editorHeight <= 0 {
		editorHeight = defaultEditorHeight
	}

	editor := textarea.New()
	editor.Placeholder = "Type a query and press ctrl+s"
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		bus:          bus,
		holder:       holder,
		endpoint:     cfg.Endpoint,
		editor:       editor,
		response:     viewport.New(defaultWidth, minResponseHeight),
		spinner:      sp,
		help:         help.New(),
		keys:         newKeyMap(),
		renderer:     views.NewRenderer(cfg.UISettings.SyntaxHighlight, cfg.UISettings.Theme),
		pretty:       cfg.UISettings.PrettyPrint,
		editorHeight: editorHeight,
		width:        defaultWidth,
		height:       defaultHeight,
	}
	m.layout()

	return m
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Draft returns the unsubmitted editor contents
func (m *Model) Draft() string {
	return m.draft
}

// Focused reports which pane has focus
func (m *Model) Focused() Focus {
	return m.focus
}

// Displayed returns what the response pane shows, before wrapping
func (m *Model) Displayed() string {
	text := m.holder.Snapshot().Text
	if m.pretty {
		return m.renderer.Pretty(text, m.response.Width)
	}
	return text
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case spinner.TickMsg:
		if m.holder.Snapshot().Stage != domain.StageLoading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pagerClosedMsg:
		if msg.err != nil {
			zap.S().Warnw("ui: pager failed", "error", msg.err)
			m.note = "pager: " + msg.err.Error()
		}
		return m, nil
	}

	// Cursor blink and anything else the editor understands
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.note = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Execute):
		return m, m.submit()

	case key.Matches(msg, m.keys.Focus):
		m.toggleFocus()
		return m, nil

	case key.Matches(msg, m.keys.Pretty):
		m.pretty = !m.pretty
		m.refreshResponse()
		return m, nil

	case key.Matches(msg, m.keys.Template):
		m.editor.SetValue(protocol.SelectTemplate())
		m.draft = m.editor.Value()
		return m, nil

	case key.Matches(msg, m.keys.Pager):
		return m, openPager(m.Displayed())

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	}

	if m.focus == FocusResponse {
		if key.Matches(msg, m.keys.Close) {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.response, cmd = m.response.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.draft = m.editor.Value()
	return m, cmd
}

// submit hands the current draft to the query service and returns immediately
func (m *Model) submit() tea.Cmd {
	seq := m.holder.Begin()
	m.bus.Publish(eventbus.QuerySubmittedEvent{
		Submission: domain.Submission{Seq: seq, Query: m.draft},
	})
	zap.S().Debugw("ui: submitted", "seq", seq)

	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m *Model) handleEvent(event eventbus.DomainEvent) {
	switch e := event.(type) {
	case eventbus.ResponseReceivedEvent:
		if !m.holder.Apply(e.Seq, e.Body, e.Elapsed) {
			zap.S().Debugw("ui: dropped stale response", "seq", e.Seq)
			return
		}
		m.response.GotoTop()
	case eventbus.QueryFailedEvent:
		if !m.holder.Fail(e.Seq, e.Err) {
			zap.S().Debugw("ui: dropped stale failure", "seq", e.Seq)
			return
		}
	case eventbus.ConfigLoadedEvent:
		m.configSource = views.ConfigSource(e.Path, e.Found)
		return
	default:
		return
	}
	m.refreshResponse()
}

func (m *Model) toggleFocus() {
	if m.focus == FocusEditor {
		m.focus = FocusResponse
		m.editor.Blur()
		return
	}
	m.focus = FocusEditor
	m.editor.Focus()
}

// layout sizes the editor and response pane to the window
func (m *Model) layout() {
	width := m.width
	if width < 20 {
		width = 20
	}
	innerWidth := width - 2 // box border

	m.editor.SetWidth(innerWidth)
	m.editor.SetHeight(m.editorHeight)

	const (
		headerLines  = 2 // title + blank line
		executeLines = 1
		statusLines  = 1
		borderLines  = 4 // two boxes
	)
	helpLines := lipgloss.Height(m.help.View(m.keys))
	used := headerLines + m.editorHeight + executeLines + statusLines + borderLines + helpLines

	responseHeight := m.height - used
	if responseHeight < minResponseHeight {
		responseHeight = minResponseHeight
	}

	m.help.Width = width
	m.response.Width = innerWidth
	m.response.Height = responseHeight
	m.refreshResponse()
}

func (m *Model) refreshResponse() {
	m.response.SetContent(m.renderer.Wrap(m.Displayed(), m.response.Width))
}

// View renders the screen
func (m *Model) View() string {
	snap := m.holder.Snapshot()

	return m.renderer.Compose(
		m.renderer.Header(m.endpoint, m.configSource),
		"",
		m.renderer.Box(m.editor.View(), m.focus == FocusEditor),
		m.renderer.ExecuteLine(m.keys.Execute.Help().Key, m.pretty),
		m.renderer.Status(snap, m.spinner.View(), m.note),
		m.renderer.Box(m.response.View(), m.focus == FocusResponse),
		m.renderer.Styles().Help.Render(m.help.View(m.keys)),
	)
}
