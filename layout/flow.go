package layout

import (
	"errors"
	"math"
)

// ErrFinalized is returned when footers are stamped twice or a finished flow is read early.
var (
	ErrFinalized    = errors.New("layout: flow already finalized")
	ErrNotFinalized = errors.New("layout: flow not finalized")
)

// FlowState is Active while the cursor sits on a live page and
// Transitioning while a page break is being carried out.
type FlowState int

const (
	Active FlowState = iota
	Transitioning
)

func (s FlowState) String() string {
	if s == Transitioning {
		return "transitioning"
	}
	return "active"
}

// Cursor is where the next block goes: the zero-based page index and Y offset.
type Cursor struct {
	PageIndex int     `json:"pageIndex"`
	Y         float64 `json:"y"`
}

type pageAccumulator struct {
	texts   []TextBox
	tables  []TableBox
	lines   []Line
	rects   []Rect
	circles []Circle
	header  HeaderFooter
	footer  HeaderFooter
}

func (p *pageAccumulator) appendText(tb TextBox) {
	p.texts = append(p.texts, tb)
}

func (p *pageAccumulator) appendTable(t TableBox) {
	p.tables = append(p.tables, t)
}

type pageCollector struct {
	geo     Geometry
	accs    []*pageAccumulator
	current int
	// 页眉模板，每次新建页面时复制一份
	header HeaderFooter
}

func newPageCollector(geo Geometry, header HeaderFooter) *pageCollector {
	pc := &pageCollector{geo: geo, header: header}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *pageAccumulator {
	acc := &pageAccumulator{header: cloneHeaderFooter(pc.header)}
	pc.accs = append(pc.accs, acc)
	pc.current = len(pc.accs) - 1
	return acc
}

func (pc *pageCollector) curr() *pageAccumulator {
	if len(pc.accs) == 0 {
		return pc.newPage()
	}
	return pc.accs[pc.current]
}

func (pc *pageCollector) contentTop() float64 { return pc.geo.Margin.Top }

func (pc *pageCollector) contentBottom() float64 { return pc.geo.ContentBottom() }

func (pc *pageCollector) pages() []Page {
	out := make([]Page, len(pc.accs))
	for i, acc := range pc.accs {
		out[i] = Page{
			Width:   pc.geo.Width,
			Height:  pc.geo.Height,
			Margin:  pc.geo.Margin,
			Texts:   acc.texts,
			Tables:  acc.tables,
			Lines:   acc.lines,
			Rects:   acc.rects,
			Circles: acc.circles,
			Header:  acc.header,
			Footer:  acc.footer,
		}
	}
	return out
}

// Flow owns the cursor and the page list of one document.
type Flow struct {
	collector *pageCollector
	cursor    Cursor
	state     FlowState
	finalized bool
	overflows []Cursor

	// heading is the cursor just below a heading that opened its page.
	heading *Cursor
}

// NewFlow starts a document on its first page; header is stamped on every page.
func NewFlow(geo Geometry, header HeaderFooter) *Flow {
	f := &Flow{collector: newPageCollector(geo, header)}
	f.cursor = Cursor{PageIndex: 0, Y: f.collector.contentTop()}
	return f
}

// Geometry returns the page geometry of this flow.
func (f *Flow) Geometry() Geometry { return f.collector.geo }

// Cursor returns the current position.
func (f *Flow) Cursor() Cursor { return f.cursor }

// Y is shorthand for Cursor().Y.
func (f *Flow) Y() float64 { return f.cursor.Y }

// State reports whether a page break is in progress.
func (f *Flow) State() FlowState { return f.state }

// Remaining is the vertical space left on the current page.
func (f *Flow) Remaining() float64 {
	return f.collector.contentBottom() - f.cursor.Y
}

// Capacity is the vertical space of an empty page.
func (f *Flow) Capacity() float64 {
	return f.collector.contentBottom() - f.collector.contentTop()
}

// AtTop reports whether nothing has been placed on the current page yet.
func (f *Flow) AtTop() bool {
	return f.cursor.Y <= f.collector.contentTop()
}

// Fits reports whether a block of height h can be placed at the cursor.
func (f *Flow) Fits(h float64) bool {
	g := f.collector.geo
	return f.cursor.Y+h+g.Margin.Bottom <= g.Height
}

// EnsureSpace breaks the page when y + h + bottomMargin > pageHeight and
// reports whether it did. A block that does not fit an empty page is left
// where it is, since another break could not help. The same holds for the
// block right below a heading that opened the page.
func (f *Flow) EnsureSpace(h float64) bool {
	if f.Fits(h) || f.AtTop() || f.BelowOpeningHeading() {
		return false
	}
	f.NewPage()
	return true
}

// MarkHeading records that the cursor sits right below a heading. When the
// heading opened its page, the next block is placed there even if it
// overflows, so the heading is never left alone.
func (f *Flow) MarkHeading(headingHeight float64) {
	if f.cursor.Y-headingHeight > f.collector.contentTop()+1e-9 {
		f.heading = nil
		return
	}
	c := f.cursor
	f.heading = &c
}

// BelowOpeningHeading reports whether the cursor is still right below a
// heading that opened the current page.
func (f *Flow) BelowOpeningHeading() bool {
	return f.heading != nil && *f.heading == f.cursor
}

// Advance moves the cursor down by the height a block consumed.
func (f *Flow) Advance(h float64) {
	f.cursor.Y += h
	if f.cursor.Y > f.collector.contentBottom()+1e-9 {
		f.overflows = append(f.overflows, f.cursor)
	}
}

// Skip adds vertical spacing, never past the bottom of the content area.
func (f *Flow) Skip(gap float64) {
	f.cursor.Y = math.Min(f.cursor.Y+gap, math.Max(f.collector.contentBottom(), f.cursor.Y))
}

// NewPage forces a page break. The new page gets its header and the cursor
// returns to the top margin.
func (f *Flow) NewPage() {
	f.state = Transitioning
	f.collector.newPage()
	f.cursor = Cursor{PageIndex: f.collector.current, Y: f.collector.contentTop()}
	f.state = Active
}

// Overflows lists the cursor positions where a placed block ran past the bottom margin.
func (f *Flow) Overflows() []Cursor { return f.overflows }

// PageCount is the number of pages created so far.
func (f *Flow) PageCount() int { return len(f.collector.accs) }

// AddText draws a text box on the current page.
func (f *Flow) AddText(tb TextBox) { f.collector.curr().appendText(tb) }

// AddTable draws a table on the current page.
func (f *Flow) AddTable(t TableBox) { f.collector.curr().appendTable(t) }

// AddRect draws a rectangle on the current page.
func (f *Flow) AddRect(r Rect) {
	acc := f.collector.curr()
	acc.rects = append(acc.rects, r)
}

// AddLine draws a line on the current page.
func (f *Flow) AddLine(l Line) {
	acc := f.collector.curr()
	acc.lines = append(acc.lines, l)
}

// AddCircle draws a circle on the current page.
func (f *Flow) AddCircle(c Circle) {
	acc := f.collector.curr()
	acc.circles = append(acc.circles, c)
}

// Finalize stamps one footer on every page, built from the 1-based page
// number and the page total. It can run only once.
func (f *Flow) Finalize(footer func(page, total int) HeaderFooter) error {
	if f.finalized {
		return ErrFinalized
	}
	total := len(f.collector.accs)
	for i, acc := range f.collector.accs {
		acc.footer = footer(i+1, total)
	}
	f.finalized = true
	return nil
}

// Result returns the finished document.
func (f *Flow) Result(meta DocumentMeta, fonts map[string]FontResource) (*Result, error) {
	if !f.finalized {
		return nil, ErrNotFinalized
	}
	return &Result{
		Pages:     f.collector.pages(),
		Resources: ResourceSet{Fonts: fonts},
		Meta:      meta,
	}, nil
}

func cloneHeaderFooter(hf HeaderFooter) HeaderFooter {
	return HeaderFooter{
		Height:  hf.Height,
		Texts:   append([]TextBox(nil), hf.Texts...),
		Lines:   append([]Line(nil), hf.Lines...),
		Rects:   append([]Rect(nil), hf.Rects...),
		Circles: append([]Circle(nil), hf.Circles...),
	}
}
