package views

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"toydbclient/internal/domain"
	"toydbclient/internal/protocol"
)

// AppTitle is shown at the top of the screen
const AppTitle = "ToyDB Client"

// Renderer draws the pieces of the query screen
type Renderer struct {
	styles    *Styles
	highlight bool
	theme     string

	// glamour renderer cached per wrap width
	glamourWidth int
	glamour      *glamour.TermRenderer
}

// NewRenderer creates a renderer. highlight enables glamour colouring of pretty JSON.
func NewRenderer(highlight bool, theme string) *Renderer {
	if theme == "" {
		theme = "dark"
	}
	return &Renderer{
		styles:    NewStyles(),
		highlight: highlight,
		theme:     theme,
	}
}

// Styles exposes the style set
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Header renders the title line. source describes where settings came from and may be empty.
func (r *Renderer) Header(endpoint, source string) string {
	line := r.styles.Title.Render(AppTitle) + "  " + r.styles.Endpoint.Render(endpoint)
	if source != "" {
		line += "  " + r.styles.Dim.Render(source)
	}
	return line
}

// ConfigSource describes the config file for the header
func ConfigSource(path string, found bool) string {
	if !found {
		return "defaults (" + path + " not found)"
	}
	return "config: " + path
}

// Box frames content, highlighting the border when focused
func (r *Renderer) Box(content string, focused bool) string {
	if focused {
		return r.styles.FocusedBox.Render(content)
	}
	return r.styles.Box.Render(content)
}

// ExecuteLine renders the execute control with its key
func (r *Renderer) ExecuteLine(key string, pretty bool) string {
	line := r.styles.Button.Render("execute query") + " " + r.styles.Dim.Render(key)
	if pretty {
		line += "  " + r.styles.Mode.Render("[pretty]")
	}
	return line
}

// Status renders the loading, success or error line for a response snapshot
func (r *Renderer) Status(resp domain.Response, spinner string, note string) string {
	var line string
	switch resp.Stage {
	case domain.StageLoading:
		line = r.styles.StatusLoading.Render(spinner + " querying...")
	case domain.StageError:
		line = r.styles.StatusError.Render("error: " + firstLine(resp.Err))
	case domain.StageSuccess:
		line = r.styles.StatusSuccess.Render(fmt.Sprintf("ok · %s · %d bytes", roundDuration(resp.Elapsed), len(resp.Text)))
	default:
		line = r.styles.StatusIdle.Render("ready")
	}
	if note != "" {
		line += "  " + r.styles.Dim.Render(note)
	}
	return line
}

// Compose stacks the rendered sections
func (r *Renderer) Compose(sections ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Pretty indents JSON text and, when highlighting is on, colours it with glamour.
// Text that is not JSON is returned unchanged.
func (r *Renderer) Pretty(text string, width int) string {
	pretty := protocol.Pretty(text)
	if !r.highlight || !json.Valid([]byte(strings.TrimSpace(text))) {
		return pretty
	}

	gr, err := r.glamourRenderer(width)
	if err != nil {
		zap.S().Warnw("views: glamour unavailable", "error", err)
		return pretty
	}
	out, err := gr.Render("```json\n" + pretty + "\n```\n")
	if err != nil {
		zap.S().Warnw("views: highlight failed", "error", err)
		return pretty
	}
	return strings.Trim(out, "\n")
}

func (r *Renderer) glamourRenderer(width int) (*glamour.TermRenderer, error) {
	if r.glamour != nil && r.glamourWidth == width {
		return r.glamour, nil
	}
	gr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.theme),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.glamour = gr
	r.glamourWidth = width
	return gr, nil
}

// TabWidth is the number of spaces a tab occupies in the response pane
const TabWidth = 4

// Wrap breaks lines longer than width for the response pane. Lines are cut at
// exactly width cells and every space is kept, so joining the wrapped lines
// gives back the input. Tabs are the one display-only change: the terminal
// cannot place them inside a bordered pane, so each becomes TabWidth spaces.
func (r *Renderer) Wrap(text string, width int) string {
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", TabWidth))
	if width <= 0 {
		return text
	}
	return ansi.Hardwrap(text, width, true)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

func roundDuration(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(10 * time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(time.Millisecond)
	default:
		return d.Round(time.Microsecond)
	}
}
