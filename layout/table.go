package layout

import (
	"fmt"
	"math"
)

// Record table geometry.
const (
	TableHeaderHeight   = 10.0
	TableMinRowHeight   = 10.0
	tableHeaderBaseline = 7.0
	tableRowBaseline    = 6.0
	tableBorderWidth    = 0.1
)

// Column places one table column: Offset is measured from the left margin
// and Width is the wrap width of its cells.
type Column struct {
	Title  string
	Offset float64
	Width  float64
	Bold   bool
}

// TableSpec describes a record table. Rows hold one string per column.
type TableSpec struct {
	Columns      []Column
	Rows         [][]string
	MinRowHeight float64 // defaults to TableMinRowHeight
	RowBaseline  float64 // first baseline below the row top; defaults to 6
}

type measuredRow struct {
	cells  []RenderedBlock
	height float64
}

// TableBlock is a measured record table. Row heights are fixed here and
// reused for fills, text and the border of every page the table spans.
type TableBlock struct {
	Spec   TableSpec
	header []RenderedBlock
	rows   []measuredRow
}

// RowHeights returns the measured height of each data row.
func (t TableBlock) RowHeights() []float64 {
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.height
	}
	return out
}

// RowLines returns the wrapped lines of every cell, row by row.
func (t TableBlock) RowLines() [][][]string {
	out := make([][][]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = make([][]string, len(r.cells))
		for j, c := range r.cells {
			out[i][j] = c.WrappedLines()
		}
	}
	return out
}

// Height is header plus all rows.
func (t TableBlock) Height() float64 {
	h := TableHeaderHeight
	for _, r := range t.rows {
		h += r.height
	}
	return h
}

// KeepHeight is the height a preceding title should keep with: the whole
// table when it fits on one page, otherwise the header and first row.
func (t TableBlock) KeepHeight(capacity float64) float64 {
	if h := t.Height(); h <= capacity || len(t.rows) == 0 {
		return h
	}
	return TableHeaderHeight + t.rows[0].height
}

// MeasureTable wraps every cell once. A row is as tall as its tallest cell,
// each cell being max(lines*lineHeight, minRowHeight).
func (w *SectionWriter) MeasureTable(spec TableSpec) (TableBlock, error) {
	if len(spec.Columns) == 0 {
		return TableBlock{}, fmt.Errorf("table needs at least one column")
	}
	if spec.MinRowHeight <= 0 {
		spec.MinRowHeight = TableMinRowHeight
	}
	if spec.RowBaseline <= 0 {
		spec.RowBaseline = tableRowBaseline
	}
	t := TableBlock{Spec: spec}
	headerStyle := TextStyle{Font: FontBold, Size: 9, Color: w.Palette.Primary}
	for _, col := range spec.Columns {
		b, err := w.Measure.Single(col.Title, headerStyle)
		if err != nil {
			return TableBlock{}, fmt.Errorf("table header %s: %w", col.Title, err)
		}
		t.header = append(t.header, b)
	}
	for i, row := range spec.Rows {
		mr := measuredRow{height: spec.MinRowHeight}
		for j, col := range spec.Columns {
			text := ""
			if j < len(row) {
				text = row[j]
			}
			style := TextStyle{Font: FontRegular, Size: 9, Color: w.Palette.Text}
			if col.Bold {
				style.Font = FontBold
			}
			b, err := w.Measure.Measure(text, col.Width, style, 0, spec.MinRowHeight)
			if err != nil {
				return TableBlock{}, fmt.Errorf("table row %d: %w", i+1, err)
			}
			mr.cells = append(mr.cells, b)
			mr.height = math.Max(mr.height, b.RequiredHeight)
		}
		t.rows = append(t.rows, mr)
	}
	return t, nil
}

// PlaceTable draws a measured table. A table that fits on an empty page is
// kept whole, moving to the next page if needed, unless it sits right below
// a page-opening heading. Otherwise it is split between rows and the header
// row is repeated on every continuation page.
// It returns the number of pages the table touched.
func (w *SectionWriter) PlaceTable(t TableBlock) int {
	total := t.Height()
	if total <= w.Flow.Capacity() {
		w.Flow.EnsureSpace(total)
	} else if len(t.rows) > 0 {
		w.Flow.EnsureSpace(TableHeaderHeight + t.rows[0].height)
	}

	pages := 1
	box := w.startTable(t)
	for i, row := range t.rows {
		if !w.Flow.Fits(row.height) && len(box.Rows) > 1 {
			w.closeTable(box)
			w.Flow.NewPage()
			pages++
			box = w.startTable(t)
		}
		w.addRow(&box, t, row, i)
	}
	w.closeTable(box)
	w.gap()
	return pages
}

func (w *SectionWriter) startTable(t TableBlock) TableBox {
	x, y := w.left(), w.Flow.Y()
	box := TableBox{
		X:            x,
		Y:            y,
		Width:        w.ContentWidth(),
		BorderColor:  w.Palette.TableBorder,
		BorderRadius: BoxRadius,
	}
	for _, col := range t.Spec.Columns {
		box.ColumnWidths = append(box.ColumnWidths, col.Width)
	}
	header := TableRow{Y: y, Height: TableHeaderHeight, IsHeader: true, Fill: colorRef(w.Palette.TableHeader)}
	for i, col := range t.Spec.Columns {
		header.Cells = append(header.Cells, TableCell{Text: t.header[i].Box(x+col.Offset, y+tableHeaderBaseline)})
	}
	box.Rows = append(box.Rows, header)
	w.Flow.Advance(TableHeaderHeight)
	return box
}

func (w *SectionWriter) addRow(box *TableBox, t TableBlock, row measuredRow, index int) {
	y := w.Flow.Y()
	fill := w.Palette.RowEven
	if index%2 == 1 {
		fill = w.Palette.RowOdd
	}
	tr := TableRow{Y: y, Height: row.height, Fill: colorRef(fill)}
	for i, col := range t.Spec.Columns {
		tr.Cells = append(tr.Cells, TableCell{Text: row.cells[i].Box(box.X+col.Offset, y+t.Spec.RowBaseline)})
	}
	box.Rows = append(box.Rows, tr)
	w.Flow.Advance(row.height)
}

// closeTable sizes the border from the rows placed on this page.
func (w *SectionWriter) closeTable(box TableBox) {
	for _, r := range box.Rows {
		box.Height += r.Height
	}
	w.Flow.AddTable(box)
}

// PairRow is one labelled row of a two-column table.
type PairRow struct {
	Label string
	Value string
}

// PairTableSpec builds the two-column FUNÇÃO/NOME table: bold labels on the
// left, values wrapped to half the content width on the right.
func (w *SectionWriter) PairTableSpec(left, right string, rows []PairRow) TableSpec {
	cw := w.ContentWidth()
	spec := TableSpec{
		Columns: []Column{
			{Title: left, Offset: BoxInset, Width: cw/2 - 2*BoxInset, Bold: true},
			{Title: right, Offset: cw / 2, Width: cw/2 - BoxInset},
		},
		MinRowHeight: 12,
		RowBaseline:  8,
	}
	for _, r := range rows {
		spec.Rows = append(spec.Rows, []string{r.Label, r.Value})
	}
	return spec
}
