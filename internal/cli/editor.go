package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/errors"
	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
	"github.com/zwdscn-cloud/JFreports/pkg/interaction"
	"github.com/zwdscn-cloud/JFreports/pkg/surface"
	"github.com/zwdscn-cloud/JFreports/pkg/workspace"
)

// frameInterval is the editor's redraw cadence.
const frameInterval = 16 * time.Millisecond

// Rows used by the header and footer around the canvas.
const (
	headerRows = 1
	footerRows = 1
)

// editCommand opens a dashboard in the terminal canvas.
func (c *CLI) editCommand() *cobra.Command {
	var create bool
	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a dashboard on an interactive terminal canvas",
		Long: `Edit a dashboard on an interactive terminal canvas.

Mouse: click to select, shift+click to add, drag to move, drag a handle to
resize, drag empty space for a selection band.

Keys:
  v / h            select / pan tool
  + / - / 0        zoom in / out / fit
  g / m            toggle grid / margins
  n / t            add a chart / text block at the canvas center
  l                lock or unlock the selection
  ctrl+z, ctrl+y   undo, redo
  ctrl+d, delete   duplicate, delete
  arrows           nudge (shift for 10px)
  ctrl+s           save
  q, ctrl+c        quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], create)
		},
	}
	cmd.Flags().BoolVar(&create, "create", false, "start an empty dashboard if the file does not exist")
	return cmd
}

func (c *CLI) runEdit(ctx context.Context, path string, create bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store := c.openPrefs(ctx, cfg)
	defer store.Close()

	m := newEditorModel(path)
	s := c.newSession(cfg, surface.ModeEdit, workspace.WithInvalidate(m.redraw))
	defer s.Close()
	m.session = s

	if err := s.LoadFile(path); err != nil {
		if !create || !errors.IsNotFound(err) {
			return err
		}
		if perr := s.ApplyPrefs(ctx, store, false); perr != nil {
			c.Logger.Warn("using default canvas", "error", perr)
		}
		m.status = "new dashboard"
	}

	// The terminal belongs to the editor while it runs.
	c.Logger.SetOutput(m.logs)
	defer c.Logger.SetOutput(c.logOut)

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseAllMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(*editorModel); ok && fm.session.Dirty() {
		printWarning("Quit with unsaved changes to %s", path)
	}
	return nil
}

// =============================================================================
// Model
// =============================================================================

type frameMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// editorModel hosts a workspace session in bubbletea. Mouse events become
// pointer events in screen pixels, one terminal cell being cellWidth by
// cellHeight pixels, and the controller's frame requests are drained on
// every tick.
type editorModel struct {
	session *workspace.Session
	path    string

	cols, rows int
	canvas     string
	status     string
	logs       *logRing
	quitArmed  bool
}

func newEditorModel(path string) *editorModel {
	return &editorModel{path: path, logs: newLogRing(1)}
}

func (m *editorModel) Init() tea.Cmd {
	return tick()
}

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case frameMsg:
		m.session.Controller().Tick()
		return m, tick()
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		return m, m.key(msg.String())
	}
	return m, nil
}

func (m *editorModel) canvasRows() int {
	return max(m.rows-headerRows-footerRows, 0)
}

// resize hands the terminal size to the surface as its container, refits
// and centers the canvas.
func (m *editorModel) resize(cols, rows int) {
	m.cols, m.rows = cols, rows
	surf := m.session.Surface()
	container := geometry.Size{W: float64(cols * cellWidth), H: float64(m.canvasRows() * cellHeight)}
	surf.SetContainer(container)
	m.center()
	m.redraw()
}

func (m *editorModel) center() {
	surf := m.session.Surface()
	c := surf.Container()
	size := surf.Settings().Size()
	scale := surf.Viewport().Scale()
	surf.SetOrigin(geometry.Point{
		X: max(0, (c.W-size.W*scale)/2),
		Y: max(0, (c.H-size.H*scale)/2),
	})
}

// screenPoint converts a terminal cell to the screen pixel at its center.
func screenPoint(x, y int) geometry.Point {
	return geometry.Point{
		X: float64(x*cellWidth) + cellWidth/2,
		Y: float64((y-headerRows)*cellHeight) + cellHeight/2,
	}
}

func (m *editorModel) mouse(msg tea.MouseMsg) {
	ctrl := m.session.Controller()
	p := screenPoint(msg.X, msg.Y)
	var mods interaction.Modifiers
	if msg.Shift {
		mods |= interaction.ModShift
	}
	if msg.Ctrl {
		mods |= interaction.ModCtrl
	}
	if msg.Alt {
		mods |= interaction.ModAlt
	}
	ev := interaction.PointerEvent{Screen: p, Mods: mods}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.zoom(surface.ZoomStep)
	case msg.Button == tea.MouseButtonWheelDown:
		m.zoom(-surface.ZoomStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if msg.Y < headerRows || msg.Y >= headerRows+m.canvasRows() {
			return
		}
		m.quitArmed = false
		ctrl.PointerDown(ev)
	case msg.Action == tea.MouseActionMotion:
		ctrl.PointerMove(ev)
	case msg.Action == tea.MouseActionRelease:
		ctrl.PointerUp(ev)
		m.status = ""
	}
}

func (m *editorModel) zoom(delta float64) {
	surf := m.session.Surface()
	surf.SetZoom(surf.Zoom() + delta)
	m.center()
	m.redraw()
}

// key runs editor commands first, then the workspace shortcuts.
func (m *editorModel) key(k string) tea.Cmd {
	s := m.session
	if k != "q" && k != "ctrl+c" {
		m.quitArmed = false
	}
	switch k {
	case "q", "ctrl+c":
		if s.Dirty() && !m.quitArmed {
			m.quitArmed = true
			m.status = "unsaved changes: press again to quit, ctrl+s to save"
			return nil
		}
		return tea.Quit
	case "ctrl+s":
		if err := s.SaveFile(m.path); err != nil {
			m.status = errors.UserMessage(err)
		} else {
			m.status = "saved " + m.path
		}
	case "v":
		s.Controller().SetTool(interaction.ToolSelect)
	case "h":
		s.Controller().SetTool(interaction.ToolPan)
	case "+", "=":
		m.zoom(surface.ZoomStep)
	case "-":
		m.zoom(-surface.ZoomStep)
	case "0":
		s.Surface().Fit()
		m.center()
	case "g":
		st := s.Surface().Settings()
		s.SetGrid(!st.ShowGrid, st.GridSize)
	case "m":
		st := s.Surface().Settings()
		s.SetMargins(!st.ShowMargins, st.MarginSize)
	case "n", "t":
		elementType := "bar-chart"
		if k == "t" {
			elementType = dashboard.TypeText
		}
		size := s.Surface().Settings().Size()
		if _, err := s.AddElement(elementType, geometry.Point{X: size.W / 2, Y: size.H / 2}); err != nil {
			m.status = errors.UserMessage(err)
		}
	case "l":
		m.toggleLock()
	default:
		s.HandleKey(k)
	}
	m.redraw()
	return nil
}

func (m *editorModel) toggleLock() {
	s := m.session
	el, ok := s.Collection().Get(s.Controller().Primary())
	if !ok {
		return
	}
	s.SetLocked(!el.PositionLocked)
}

// redraw rasterizes the current scene. It is the controller's invalidate
// callback, so pointer moves redraw at most once per frame.
func (m *editorModel) redraw() {
	if m.session == nil || m.cols == 0 {
		return
	}
	g := newCellGrid(m.cols, m.canvasRows(), m.session.Surface().Viewport())
	g.draw(m.session.Scene())
	m.canvas = g.render()
}

func (m *editorModel) View() string {
	if m.session == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteByte('\n')
	b.WriteString(m.canvas)
	b.WriteByte('\n')
	b.WriteString(m.footer())
	return b.String()
}

func (m *editorModel) header() string {
	s := m.session
	ctrl := s.Controller()
	name := m.path
	if s.Dirty() {
		name += " *"
	}
	info := fmt.Sprintf("%s · %.0f%% · %s · %d selected", ctrl.Tool(), s.Surface().Zoom(), ctrl.State(), len(ctrl.Selection()))
	return StyleTitle.Render(name) + "  " + StyleDim.Render(info)
}

func (m *editorModel) footer() string {
	switch {
	case m.status != "":
		return StyleWarning.Render(m.status)
	case m.logs.last() != "":
		return StyleDim.Render(m.logs.last())
	}
	return StyleDim.Render("v select · h pan · n chart · t text · ctrl+z undo · ctrl+s save · q quit")
}
