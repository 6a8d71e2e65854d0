package layout

import (
	"fmt"
	"math"
)

// Section geometry shared by every report.
const (
	SectionTitleHeight = 10.0
	BlockGap           = 10.0
	BoxRadius          = 3.0
	BoxInset           = 10.0
	LabelAllowance     = 15.0
	ListItemHeight     = 12.0
	CardHeight         = 40.0
	NoteLineHeight     = 5.0
)

// SectionWriter draws semantic blocks at the flow cursor. Each block is
// measured once, the flow makes room for it, and the measured lines are drawn.
type SectionWriter struct {
	Flow    *Flow
	Measure Measurer
	Palette Palette
	Gap     float64
}

// NewSectionWriter binds a writer to a flow.
func NewSectionWriter(flow *Flow, m Measurer, p Palette) *SectionWriter {
	return &SectionWriter{Flow: flow, Measure: m, Palette: p, Gap: BlockGap}
}

func (w *SectionWriter) left() float64 { return w.Flow.Geometry().Margin.Left }

// ContentWidth is the width between the side margins.
func (w *SectionWriter) ContentWidth() float64 { return w.Flow.Geometry().ContentWidth() }

// Styles used by the section shapes.
func (w *SectionWriter) TitleStyle() TextStyle {
	return TextStyle{Font: FontBold, Size: 12, Color: w.Palette.Primary}
}

func (w *SectionWriter) LabelStyle() TextStyle {
	return TextStyle{Font: FontBold, Size: 9, Color: w.Palette.Secondary}
}

func (w *SectionWriter) ValueStyle() TextStyle {
	return TextStyle{Font: FontRegular, Size: 10, Color: w.Palette.Text}
}

func (w *SectionWriter) gap() {
	gap := w.Gap
	if gap <= 0 {
		gap = BlockGap
	}
	w.Flow.Skip(gap)
}

// Title draws a section heading: a rounded marker, the title and a rule to
// the right margin. keepWith is the height of the block that follows, so the
// heading never ends up alone on a page. A block taller than what is left of
// an empty page still follows its heading and overflows.
func (w *SectionWriter) Title(title string, keepWith float64) error {
	style := w.TitleStyle()
	label, err := w.Measure.Single(title, style)
	if err != nil {
		return fmt.Errorf("section title: %w", err)
	}
	w.Flow.EnsureSpace(math.Min(SectionTitleHeight+keepWith, w.Flow.Capacity()))

	x, y := w.left(), w.Flow.Y()
	w.Flow.AddRect(Rect{X: x, Y: y, Width: 5, Height: 5, Radius: 1, FillColor: colorRef(w.Palette.Primary)})
	w.Flow.AddText(label.Box(x+10, y+4))
	ruleStart := x + 10 + label.Width + 5
	if end := x + w.ContentWidth(); ruleStart < end {
		w.Flow.AddLine(Line{X1: ruleStart, Y1: y + 2, X2: end, Y2: y + 2, Color: w.Palette.NeutralDark, Width: 0.2})
	}
	w.Flow.Advance(SectionTitleHeight)
	w.Flow.MarkHeading(SectionTitleHeight)
	return nil
}

// BoxSpec describes a titled box: an optional caption above a wrapped value.
type BoxSpec struct {
	Label     string
	Value     string
	Style     TextStyle
	Padding   float64 // added to the wrapped text height; defaults to the label allowance
	MinHeight float64
}

// BoxBlock is a measured box ready to be placed.
type BoxBlock struct {
	Spec  BoxSpec
	Label RenderedBlock
	Value RenderedBlock
}

// Height is the full box height.
func (b BoxBlock) Height() float64 { return b.Value.RequiredHeight }

// MeasureBox wraps the value to the box's inner width.
func (w *SectionWriter) MeasureBox(spec BoxSpec) (BoxBlock, error) {
	if spec.Style.Font == "" {
		spec.Style = w.ValueStyle()
	}
	padding := spec.Padding
	if padding <= 0 {
		padding = LabelAllowance
	}
	block := BoxBlock{Spec: spec}
	var err error
	if spec.Label != "" {
		if block.Label, err = w.Measure.Single(spec.Label, w.LabelStyle()); err != nil {
			return BoxBlock{}, fmt.Errorf("box label: %w", err)
		}
	}
	if block.Value, err = w.Measure.Measure(spec.Value, w.ContentWidth()-2*BoxInset, spec.Style, padding, spec.MinHeight); err != nil {
		return BoxBlock{}, fmt.Errorf("box value: %w", err)
	}
	return block, nil
}

// PlaceBox draws a measured box at the cursor, breaking the page first if needed.
func (w *SectionWriter) PlaceBox(b BoxBlock) {
	h := b.Height()
	w.Flow.EnsureSpace(h)
	x, y := w.left(), w.Flow.Y()
	cw := w.ContentWidth()
	w.Flow.AddRect(Rect{X: x, Y: y, Width: cw, Height: h, Radius: BoxRadius, FillColor: colorRef(w.Palette.SectionBg)})

	baseline := y + 10
	if b.Spec.Label != "" {
		w.Flow.AddText(b.Label.Box(x+BoxInset, y+8))
		baseline = y + 18
	}
	box := b.Value.Box(x+BoxInset, baseline)
	if b.Spec.Style.Align == "center" {
		box.X, box.Width = x, cw
		box.Y = y + (h-b.Value.TextHeight())/2 + b.Value.LineHeight*0.75
	}
	w.Flow.AddText(box)
	w.Flow.Advance(h)
	w.gap()
}

// TitledBox measures, places and returns a box in one call.
func (w *SectionWriter) TitledBox(spec BoxSpec) (BoxBlock, error) {
	b, err := w.MeasureBox(spec)
	if err != nil {
		return BoxBlock{}, err
	}
	w.PlaceBox(b)
	return b, nil
}

// Field is one labelled cell of a FieldGrid.
type Field struct {
	Label string
	Value string
}

// FieldGridHeight is the minimum height of a grid box.
const FieldGridHeight = 25.0

// MeasureFieldGrid wraps each field to its column and returns the shared row height.
func (w *SectionWriter) MeasureFieldGrid(fields []Field) ([]BoxBlock, float64, error) {
	if len(fields) == 0 {
		return nil, 0, nil
	}
	boxWidth := w.fieldWidth(len(fields))
	style := TextStyle{Font: FontRegular, Size: 11, Color: w.Palette.Text}
	blocks := make([]BoxBlock, len(fields))
	height := FieldGridHeight
	for i, f := range fields {
		label, err := w.Measure.Single(f.Label, w.LabelStyle())
		if err != nil {
			return nil, 0, fmt.Errorf("field %s: %w", f.Label, err)
		}
		value, err := w.Measure.Measure(f.Value, boxWidth-2*BoxInset, style, LabelAllowance, FieldGridHeight)
		if err != nil {
			return nil, 0, fmt.Errorf("field %s: %w", f.Label, err)
		}
		blocks[i] = BoxBlock{Spec: BoxSpec{Label: f.Label, Value: f.Value, Style: style}, Label: label, Value: value}
		if value.RequiredHeight > height {
			height = value.RequiredHeight
		}
	}
	return blocks, height, nil
}

func (w *SectionWriter) fieldWidth(n int) float64 {
	return (w.ContentWidth() - float64(n-1)*BoxInset) / float64(n)
}

// PlaceFieldGrid draws side-by-side labelled boxes of equal height.
func (w *SectionWriter) PlaceFieldGrid(blocks []BoxBlock, height float64) {
	if len(blocks) == 0 {
		return
	}
	w.Flow.EnsureSpace(height)
	y := w.Flow.Y()
	boxWidth := w.fieldWidth(len(blocks))
	for i, b := range blocks {
		x := w.left() + float64(i)*(boxWidth+BoxInset)
		w.Flow.AddRect(Rect{X: x, Y: y, Width: boxWidth, Height: height, Radius: BoxRadius, FillColor: colorRef(w.Palette.SectionBg)})
		w.Flow.AddText(b.Label.Box(x+BoxInset, y+8))
		w.Flow.AddText(b.Value.Box(x+BoxInset, y+18))
	}
	w.Flow.Advance(height)
	w.gap()
}

// ListBlock is a measured bullet list.
type ListBlock struct {
	Items  []RenderedBlock
	Height float64
}

// MeasureList sizes a list box as max(n*12 + 10, 30). Items are single lines.
func (w *SectionWriter) MeasureList(items []string) (ListBlock, error) {
	style := w.ValueStyle()
	out := ListBlock{Items: make([]RenderedBlock, 0, len(items))}
	for _, it := range items {
		b, err := w.Measure.Single(it, style)
		if err != nil {
			return ListBlock{}, fmt.Errorf("list item: %w", err)
		}
		out.Items = append(out.Items, b)
	}
	out.Height = BlockHeight(len(items), ListItemHeight, 10, 30)
	if len(items) == 0 {
		out.Height = 30
	}
	return out, nil
}

// PlaceList draws a list box with a round bullet before every item.
func (w *SectionWriter) PlaceList(l ListBlock) {
	w.Flow.EnsureSpace(l.Height)
	x, y := w.left(), w.Flow.Y()
	w.Flow.AddRect(Rect{X: x, Y: y, Width: w.ContentWidth(), Height: l.Height, Radius: BoxRadius, FillColor: colorRef(w.Palette.SectionBg)})
	itemY := y + 10
	for _, item := range l.Items {
		w.Flow.AddCircle(Circle{CX: x + 10, CY: itemY - 3, R: 3, FillColor: colorRef(w.Palette.Secondary)})
		w.Flow.AddText(item.Box(x+20, itemY))
		itemY += ListItemHeight
	}
	w.Flow.Advance(l.Height)
	w.gap()
}

// CardSpec is one fixed-height entry of an index: a numbered badge, a title and detail lines.
type CardSpec struct {
	Badge   string
	Title   string
	Details []string
}

// Card draws a CardSpec, breaking the page first when it does not fit.
func (w *SectionWriter) Card(spec CardSpec) error {
	badge, err := w.Measure.Single(spec.Badge, TextStyle{Font: FontBold, Size: 10, Color: w.Palette.White, Align: "center"})
	if err != nil {
		return fmt.Errorf("card badge: %w", err)
	}
	title, err := w.Measure.Single(spec.Title, TextStyle{Font: FontBold, Size: 11, Color: w.Palette.Text})
	if err != nil {
		return fmt.Errorf("card title: %w", err)
	}
	details := make([]RenderedBlock, 0, len(spec.Details))
	for _, d := range spec.Details {
		b, err := w.Measure.Single(d, TextStyle{Font: FontRegular, Size: 9, Color: w.Palette.Text})
		if err != nil {
			return fmt.Errorf("card detail: %w", err)
		}
		details = append(details, b)
	}

	w.Flow.EnsureSpace(CardHeight)
	x, y := w.left(), w.Flow.Y()
	w.Flow.AddRect(Rect{X: x, Y: y, Width: w.ContentWidth(), Height: CardHeight, Radius: BoxRadius, FillColor: colorRef(w.Palette.SectionBg)})
	w.Flow.AddCircle(Circle{CX: x + 15, CY: y + 15, R: 8, FillColor: colorRef(w.Palette.Secondary)})
	badgeBox := badge.Box(x+7, y+18)
	badgeBox.Width = 16
	w.Flow.AddText(badgeBox)
	w.Flow.AddText(title.Box(x+30, y+15))
	for i, d := range details {
		w.Flow.AddText(d.Box(x+30, y+25+float64(i)*8))
	}
	w.Flow.Advance(CardHeight)
	w.gap()
	return nil
}

// Note draws closing remarks, one line each, in light italics.
func (w *SectionWriter) Note(lines []string) error {
	style := TextStyle{Font: FontItalic, Size: 9, Color: w.Palette.TextLight}
	blocks := make([]RenderedBlock, 0, len(lines))
	for _, l := range lines {
		b, err := w.Measure.Single(l, style)
		if err != nil {
			return fmt.Errorf("note: %w", err)
		}
		blocks = append(blocks, b)
	}
	h := float64(len(lines)) * NoteLineHeight
	w.Flow.EnsureSpace(h)
	y := w.Flow.Y()
	for i, b := range blocks {
		w.Flow.AddText(b.Box(w.left(), y+NoteLineHeight*float64(i+1)-1))
	}
	w.Flow.Advance(h)
	return nil
}
