package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/sidedock/pkg/station"
	"github.com/matzehuels/sidedock/pkg/tree"
)

// rect is the JSON form of tree.Rect.
type rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func toRect(r tree.Rect) rect {
	return rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// layoutReport is the result of a layout pass, shared by the layout
// command and the HTTP API.
type layoutReport struct {
	Station   string         `json:"station"`
	Side      string         `json:"side"`
	Bounds    rect           `json:"bounds"`
	Preferred [2]int         `json:"preferred"`
	Columns   []columnReport `json:"columns"`
}

type columnReport struct {
	Index  int          `json:"index"`
	Size   int          `json:"size"`
	Bounds rect         `json:"bounds"`
	Cells  []cellReport `json:"cells"`
}

type cellReport struct {
	Index    int      `json:"index"`
	Contents []int64  `json:"contents"`
	Labels   []string `json:"labels"`
	Size     int      `json:"size"`
	Bounds   rect     `json:"bounds"`
}

// newReport describes the last layout pass of st.
func newReport(st *station.Station, label func(tree.ContentID) string) layoutReport {
	opts := st.Options()
	m := st.Columns()
	t := m.Tree
	header, col := opts.Side.HeaderAxis(), opts.Side.ColumnAxis()
	pref := st.PreferredSize()

	r := layoutReport{
		Station:   opts.ID,
		Side:      opts.Side.String(),
		Bounds:    toRect(st.Bounds()),
		Preferred: [2]int{pref.Width, pref.Height},
		Columns:   make([]columnReport, 0, m.Len()),
	}
	for _, c := range m.Columns() {
		b := t.Bounds(c.Root)
		cr := columnReport{Index: c.Index, Size: b.Extent(header), Bounds: toRect(b)}
		for _, cell := range c.Cells {
			cb := t.Bounds(cell.Root)
			rep := cellReport{Index: cell.Index, Size: cb.Extent(col), Bounds: toRect(cb)}
			for _, id := range cell.Contents(t) {
				rep.Contents = append(rep.Contents, int64(id))
				rep.Labels = append(rep.Labels, label(id))
			}
			cr.Cells = append(cr.Cells, rep)
		}
		r.Columns = append(r.Columns, cr)
	}
	return r
}

// sizes returns the column sizes of the report.
func (r layoutReport) sizes() []int {
	out := make([]int, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Size
	}
	return out
}

// renderTable renders the report as a lipgloss table, one row per cell.
func (r layoutReport) renderTable() string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	var rows [][]string
	for _, c := range r.Columns {
		for i, cell := range c.Cells {
			colIdx, colSize := "", ""
			if i == 0 {
				colIdx, colSize = strconv.Itoa(c.Index), strconv.Itoa(c.Size)
			}
			rows = append(rows, []string{
				colIdx,
				colSize,
				strconv.Itoa(cell.Index),
				strings.Join(cell.Labels, ", "),
				strconv.Itoa(cell.Size),
				fmt.Sprintf("%d,%d %dx%d", cell.Bounds.X, cell.Bounds.Y, cell.Bounds.Width, cell.Bounds.Height),
			})
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Col", "Size", "Cell", "Content", "Size", "Bounds").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0 || col == 1:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 5:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}

// printReport prints the station summary and table.
func printReport(r layoutReport) {
	printKeyValue("Station", r.Station)
	printKeyValue("Side", r.Side)
	printKeyValue("Bounds", fmt.Sprintf("%d,%d %dx%d", r.Bounds.X, r.Bounds.Y, r.Bounds.Width, r.Bounds.Height))
	printKeyValue("Preferred", fmt.Sprintf("%dx%d", r.Preferred[0], r.Preferred[1]))
	fmt.Println(r.renderTable())
}
