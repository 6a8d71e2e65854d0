package layout

import (
	"fmt"
	"strings"
)

// RenderedBlock is the single measurement of a text block. The lines it holds
// are the ones drawn, so a box sized from RequiredHeight always matches its text.
type RenderedBlock struct {
	Text           string
	Width          float64
	Style          TextStyle
	LineHeight     float64
	Lines          []TextLine
	RequiredHeight float64
}

// WrappedLines returns the text of every wrapped line.
func (b RenderedBlock) WrappedLines() []string { return LineContents(b.Lines) }

// TextHeight is the height of the lines alone, without padding or minimum.
func (b RenderedBlock) TextHeight() float64 {
	return float64(len(b.Lines)) * b.LineHeight
}

// Box places the measured lines with the first baseline at (x, baseline).
func (b RenderedBlock) Box(x, baseline float64) TextBox {
	lines := make([]TextLine, len(b.Lines))
	for i, l := range b.Lines {
		l.Height = b.LineHeight
		lines[i] = l
	}
	return TextBox{
		Content:    b.Text,
		X:          x,
		Y:          baseline,
		Width:      b.Width,
		LineHeight: b.LineHeight,
		Font:       b.Style.Font,
		FontSize:   b.Style.SizeMM(),
		Color:      b.Style.Color,
		Lines:      lines,
		Height:     b.TextHeight(),
		Align:      b.Style.Align,
		Anchor:     "baseline",
	}
}

// Measurer wraps text through a Typesetter and sizes the resulting block.
type Measurer struct {
	Typesetter Typesetter
	Fonts      map[string]FontResource
	LineHeight float64
}

func (m Measurer) lineHeight() float64 {
	if m.LineHeight > 0 {
		return m.LineHeight
	}
	return DefaultLineHeight
}

// Measure wraps text to width and returns the block with
// RequiredHeight = max(lines*lineHeight + padding, minHeight).
func (m Measurer) Measure(text string, width float64, style TextStyle, padding, minHeight float64) (RenderedBlock, error) {
	lh := m.lineHeight()
	lines, err := m.layoutLines(text, width, style, lh, "")
	if err != nil {
		return RenderedBlock{}, err
	}
	return RenderedBlock{
		Text:           text,
		Width:          width,
		Style:          style,
		LineHeight:     lh,
		Lines:          lines,
		RequiredHeight: BlockHeight(len(lines), lh, padding, minHeight),
	}, nil
}

// Single measures a one-line label that is never wrapped.
func (m Measurer) Single(text string, style TextStyle) (RenderedBlock, error) {
	lh := m.lineHeight()
	lines, err := m.layoutLines(text, 0, style, lh, "nowrap")
	if err != nil {
		return RenderedBlock{}, err
	}
	width := 0.0
	for _, l := range lines {
		if l.Width > width {
			width = l.Width
		}
	}
	return RenderedBlock{
		Text:           text,
		Width:          width,
		Style:          style,
		LineHeight:     lh,
		Lines:          lines,
		RequiredHeight: BlockHeight(len(lines), lh, 0, 0),
	}, nil
}

func (m Measurer) layoutLines(content string, width float64, style TextStyle, lineHeight float64, wrap string) ([]TextLine, error) {
	if m.Typesetter == nil {
		if wrap == "nowrap" {
			width = 0
		}
		size := style.SizeMM()
		return Wrap(content, width, func(s string) float64 { return estimateTextWidth(s, size) }), nil
	}
	font := m.Fonts[style.Font]
	lines, err := m.Typesetter.LayoutLines(content, width, font, style.SizeMM(), lineHeight, wrap)
	if err != nil {
		return nil, fmt.Errorf("wrap %q: %w", abbreviate(content), err)
	}
	if len(lines) == 0 {
		lines = []TextLine{{Content: ""}}
	}
	return lines, nil
}

func abbreviate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 24 {
		return string(r[:24]) + "…"
	}
	return s
}
