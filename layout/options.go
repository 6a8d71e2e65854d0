package layout

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// width, fontSize and lineHeight are millimetres; wrap is "" (greedy) or "nowrap".
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
}

// Geometry fixes the page size and the flowing content area.
type Geometry struct {
	Width  float64
	Height float64
	Margin Margin
}

// A4 is the portrait page used by every report: 15mm sides, content from 45mm
// down to 30mm above the bottom edge.
func A4() Geometry {
	return Geometry{
		Width:  210,
		Height: 297,
		Margin: Margin{Top: 45, Right: 15, Bottom: 30, Left: 15},
	}
}

// ContentWidth is the usable width between the side margins.
func (g Geometry) ContentWidth() float64 {
	return g.Width - g.Margin.Left - g.Margin.Right
}

// ContentBottom is the lowest Y a placed block may reach.
func (g Geometry) ContentBottom() float64 {
	return g.Height - g.Margin.Bottom
}
