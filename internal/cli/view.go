package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sidedock/pkg/bounds"
	"github.com/matzehuels/sidedock/pkg/span"
	"github.com/matzehuels/sidedock/pkg/tree"
)

// Viewer styles
var (
	viewFrameStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	viewSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewGapStyle      = lipgloss.NewStyle().Foreground(colorDim)
	viewPreviewStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	viewDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const frameInterval = 16 * time.Millisecond

// viewCommand creates the interactive viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		flags storeFlags
		step  int
	)

	cmd := &cobra.Command{
		Use:   "view [station.toml]",
		Short: "Explore and resize a station interactively",
		Long: `Explore and resize a station interactively.

The station is drawn scaled to the terminal. Tab cycles through the
dividers, the arrow keys drag the selected one, p toggles a drop preview
after the last column. Sizes are saved to the layout store on exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], flags, step)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&step, "step", 10, "pixels moved per key press")

	return cmd
}

func (c *CLI) runView(ctx context.Context, path string, flags storeFlags, step int) error {
	ws, err := c.openWorkspace(ctx, path, flags)
	if err != nil {
		return err
	}
	defer ws.Close()

	m := newViewModel(ws, step)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	if vm, ok := final.(viewModel); ok && vm.changed {
		if err := ws.save(ctx); err != nil {
			return err
		}
		printSuccess("Saved layout of %s", ws.cfg.ID)
	}
	return nil
}

// =============================================================================
// viewModel - Interactive station viewer
// =============================================================================

type frameMsg time.Time

// viewModel is the bubbletea model of the viewer.
type viewModel struct {
	ws       *workspace
	dividers []bounds.Divider
	selected int
	step     int
	cols     int
	rows     int
	status   string
	changed  bool
}

func newViewModel(ws *workspace, step int) viewModel {
	if step <= 0 {
		step = 10
	}
	m := viewModel{ws: ws, step: step, cols: 80, rows: 24}
	m.dividers = listDividers(ws)
	return m
}

// listDividers returns every divider of the station: Node dividers in tree
// order, then the trailing cell dividers, then the trailing column divider.
func listDividers(ws *workspace) []bounds.Divider {
	t := ws.st.Tree()
	var out []bounds.Divider
	t.Walk(func(h tree.Handle, _ int) bool {
		if t.BothVisible(h) {
			out = append(out, bounds.NodeDivider(h))
		}
		return t.Visible(h)
	})
	if ws.st.Options().KeepSizes {
		for i := range ws.st.ColumnCount() {
			out = append(out, bounds.CellEnd(i))
		}
		if ws.st.ColumnCount() > 0 {
			out = append(out, bounds.ColumnEnd())
		}
	}
	return out
}

// dividerPoint returns the pointer position at the centre of d.
func dividerPoint(ws *workspace, d bounds.Divider) tree.Point {
	st := ws.st
	t := st.Tree()
	side := st.Options().Side
	half := st.Options().Gap / 2
	h, c := side.HeaderAxis(), side.ColumnAxis()

	point := func(o tree.Orientation, along, across int) tree.Point {
		if o == tree.Horizontal {
			return tree.Point{X: along, Y: across}
		}
		return tree.Point{X: across, Y: along}
	}

	switch d.Kind {
	case bounds.TrailingColumn:
		b := st.Bounds()
		if side.Reversed() {
			return point(h, b.Start(h)-half-1, b.Start(c))
		}
		return point(h, b.End(h)+half, b.Start(c))
	case bounds.TrailingCell:
		col := st.Columns().Column(d.Column)
		last := t.Bounds(col.Cell(len(col.Cells) - 1).Root)
		return point(c, last.End(c)+half, last.Start(h))
	}
	o := t.Orientation(d.Node)
	left := t.Bounds(t.Left(d.Node))
	return point(o, left.End(o)+half, left.Start(o.Other()))
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if len(m.dividers) > 0 {
				m.selected = (m.selected + 1) % len(m.dividers)
			}
		case "shift+tab":
			if len(m.dividers) > 0 {
				m.selected = (m.selected + len(m.dividers) - 1) % len(m.dividers)
			}
		case "left", "h", "up", "k":
			m.drag(-m.step)
		case "right", "l", "down", "j":
			m.drag(m.step)
		case "p":
			return m, m.togglePreview()
		}
	case frameMsg:
		if m.ws.st.Tick(frameInterval) {
			m.ws.st.Flush()
			return m, tick()
		}
		m.ws.st.Flush()
	case tea.WindowSizeMsg:
		m.cols = max(20, msg.Width-2)
		m.rows = max(5, msg.Height-8)
	}
	return m, nil
}

// drag moves the selected divider by delta pixels along its orientation.
func (m *viewModel) drag(delta int) {
	if len(m.dividers) == 0 {
		return
	}
	d := m.dividers[m.selected]
	p := dividerPoint(m.ws, d)
	if m.ws.st.Orientation(d) == tree.Horizontal {
		p.X += delta
	} else {
		p.Y += delta
	}
	proposed := m.ws.st.RatioAt(d, p)
	valid := m.ws.st.SetDivider(d, proposed)
	m.ws.st.Flush()
	m.changed = true
	m.status = fmt.Sprintf("%s  proposed %.3f  validated %.3f", d, proposed, valid)
}

func (m *viewModel) togglePreview() tea.Cmd {
	st := m.ws.st
	if _, _, _, ok := st.Preview(); ok {
		st.ClearPlacementPreview()
		st.Flush()
		m.status = "preview closed"
		return nil
	}
	n := st.ColumnCount()
	if n == 0 {
		return nil
	}
	col := st.Columns().Column(n - 1)
	req := span.Request{
		Target: col.Cell(0).Leaves[0],
		Side:   span.AfterHeader,
		Size:   tree.Size{Width: 120, Height: 120},
	}
	st.SetPlacementPreview(req)
	m.status = "preview " + req.Side.String()
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m viewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Station " + m.ws.cfg.ID))
	b.WriteString("  ")
	b.WriteString(viewDimStyle.Render(fmt.Sprint(newReport(m.ws.st, m.ws.label).sizes())))
	b.WriteString("\n")
	b.WriteString(viewDimStyle.Render("tab select  ←/→/↑/↓ drag  p preview  q quit"))
	b.WriteString("\n")
	b.WriteString(viewFrameStyle.Render(m.renderMap()))
	b.WriteString("\n")
	if len(m.dividers) > 0 {
		b.WriteString(viewSelectedStyle.Render(m.dividers[m.selected].String()))
		b.WriteString("  ")
	}
	b.WriteString(viewDimStyle.Render(m.status))
	return b.String()
}

// renderMap draws the station area scaled to the terminal: each leaf is
// filled with the first letter of its label, gaps are dotted and the
// selected divider is highlighted.
func (m viewModel) renderMap() string {
	st := m.ws.st
	t := st.Tree()
	area := st.Area()
	if area.Empty() {
		return viewDimStyle.Render("(empty area)")
	}
	sx := max(1, (area.Width+m.cols-1)/m.cols)
	sy := max(1, (area.Height+m.rows-1)/m.rows)

	var leaves []tree.Handle
	for _, h := range t.Leaves() {
		if t.Visible(h) {
			leaves = append(leaves, h)
		}
	}
	var selected bounds.Divider
	hasSelection := len(m.dividers) > 0
	if hasSelection {
		selected = m.dividers[m.selected]
	}
	stationRect := st.Bounds()

	var b strings.Builder
	for y := area.Y; y < area.Y+area.Height; y += sy {
		for x := area.X; x < area.X+area.Width; x += sx {
			p := tree.Point{X: x + sx/2, Y: y + sy/2}
			if hasSelection {
				if d, ok := st.DividerAt(p); ok && d == selected {
					b.WriteString(viewSelectedStyle.Render("┃"))
					continue
				}
			}
			b.WriteString(m.glyph(p, leaves, stationRect))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m viewModel) glyph(p tree.Point, leaves []tree.Handle, station tree.Rect) string {
	t := m.ws.st.Tree()
	for _, h := range leaves {
		if t.Bounds(h).Contains(p) {
			return initial(m.ws.label(t.Content(h)))
		}
	}
	if !station.Contains(p) {
		return " "
	}
	if _, _, _, ok := m.ws.st.Preview(); ok {
		return viewPreviewStyle.Render("░")
	}
	return viewGapStyle.Render("·")
}

// initial returns the first letter of a label, or the first digit of a
// numeric "#id" label.
func initial(label string) string {
	r := []rune(strings.TrimPrefix(label, "#"))
	if len(r) == 0 {
		return "?"
	}
	return string(r[0])
}
