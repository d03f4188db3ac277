package store

import (
	"time"

	"github.com/matzehuels/sidedock/pkg/errors"
	"github.com/matzehuels/sidedock/pkg/persist"
	"github.com/matzehuels/sidedock/pkg/station"
	"github.com/matzehuels/sidedock/pkg/tree"
)

// Document is the persisted layout of one station.
type Document struct {
	Station   string      `json:"station" bson:"_id"`
	Side      string      `json:"side" bson:"side"`
	Gap       int         `json:"gap" bson:"gap"`
	Columns   []ColumnDoc `json:"columns" bson:"columns"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}

// ColumnDoc is one column: its size along the header axis and its cells.
type ColumnDoc struct {
	Size  int       `json:"size" bson:"size"`
	Cells []CellDoc `json:"cells" bson:"cells"`
}

// CellDoc is one cell: the content it holds and its size along the column
// axis. Hidden cells are remembered but not shown.
type CellDoc struct {
	Contents []int64 `json:"contents" bson:"contents"`
	Size     int     `json:"size" bson:"size"`
	Hidden   bool    `json:"hidden,omitempty" bson:"hidden,omitempty"`
}

// ToDocument captures the persistent sizes of st.
func ToDocument(st *station.Station) *Document {
	opts := st.Options()
	records := st.PersistentColumns()
	doc := &Document{
		Station:   opts.ID,
		Side:      opts.Side.String(),
		Gap:       opts.Gap,
		Columns:   make([]ColumnDoc, len(records)),
		UpdatedAt: time.Now().UTC(),
	}
	for i, rec := range records {
		col := ColumnDoc{Size: rec.Effective()}
		for _, cell := range rec.Cells {
			col.Cells = append(col.Cells, cellDoc(cell, false))
		}
		for _, cell := range rec.HiddenCells {
			col.Cells = append(col.Cells, cellDoc(cell, true))
		}
		doc.Columns[i] = col
	}
	return doc
}

func cellDoc(c persist.Cell, hidden bool) CellDoc {
	ids := make([]int64, len(c.Contents))
	for i, id := range c.Contents {
		ids[i] = int64(id)
	}
	return CellDoc{Contents: ids, Size: c.Effective(), Hidden: hidden}
}

// Records converts the document back into persistent records. Preferred
// and minimum sizes are unknown here; the station fills them in when it
// remaps the records onto its tree.
func (d *Document) Records() []persist.Column {
	out := make([]persist.Column, len(d.Columns))
	for i, col := range d.Columns {
		rec := persist.Column{Size: col.Size}
		for _, c := range col.Cells {
			if len(c.Contents) == 0 {
				continue
			}
			cell := persist.Cell{Size: c.Size, Contents: make([]tree.ContentID, len(c.Contents))}
			for j, id := range c.Contents {
				cell.Contents[j] = tree.ContentID(id)
			}
			cell.Content = cell.Contents[0]
			if c.Hidden {
				rec.HiddenCells = append(rec.HiddenCells, cell)
			} else {
				rec.Cells = append(rec.Cells, cell)
			}
		}
		out[i] = rec
	}
	return out
}

// Apply restores the document's sizes into st. Sizes are measured along
// the station's axes, so a document saved for another side is rejected.
func (d *Document) Apply(st *station.Station) error {
	if side := st.Options().Side.String(); d.Side != side {
		return errors.New(errors.ErrCodeInvalidInput, "layout %q was saved for side %s, station is docked %s", d.Station, d.Side, side)
	}
	st.SetPersistentColumns(d.Records())
	return nil
}
