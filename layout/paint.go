package layout

// TextStyle is the paint state of one text draw: font, size in points,
// colour and alignment. Every drawable carries its own copy.
type TextStyle struct {
	Font  string
	Size  float64 // pt
	Color Color
	Align string
}

// SizeMM returns the font size in millimetres.
func (s TextStyle) SizeMM() float64 { return s.Size * PtToMm }

// Aligned returns a copy with another alignment.
func (s TextStyle) Aligned(align string) TextStyle {
	s.Align = align
	return s
}

// Palette holds the report colours.
type Palette struct {
	Primary     Color
	Secondary   Color
	Text        Color
	TextLight   Color
	NeutralDark Color
	White       Color
	SectionBg   Color
	TableBorder Color
	TableHeader Color
	RowEven     Color
	RowOdd      Color
}

// DefaultPalette is the Rarotec colour scheme.
func DefaultPalette() Palette {
	return Palette{
		Primary:     Color{R: 41, G: 65, B: 97},
		Secondary:   Color{R: 83, G: 144, B: 217},
		Text:        Color{R: 51, G: 51, B: 51},
		TextLight:   Color{R: 120, G: 120, B: 120},
		NeutralDark: Color{R: 200, G: 200, B: 200},
		White:       Color{R: 255, G: 255, B: 255},
		SectionBg:   Color{R: 248, G: 250, B: 252},
		TableBorder: Color{R: 230, G: 230, B: 230},
		TableHeader: Color{R: 245, G: 247, B: 250},
		RowEven:     Color{R: 255, G: 255, B: 255},
		RowOdd:      Color{R: 250, G: 252, B: 255},
	}
}

func colorRef(c Color) *Color { return &c }
