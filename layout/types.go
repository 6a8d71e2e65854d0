package layout

// 该文件定义布局结果与资源描述，供布局计算、渲染与调试 JSON 共用。
// All coordinates are millimetres from the top-left corner of the page.

// Font names registered by every composed document.
const (
	FontRegular = "Regular"
	FontBold    = "Bold"
	FontItalic  = "Italic"
)

// Result 保存布局后的页面与资源信息。
type Result struct {
	Pages     []Page       `json:"pages"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
}

// ResourceSet 记录文档引用的字体。
type ResourceSet struct {
	Fonts map[string]FontResource `json:"fonts"`
}

// FontResource 描述字体资源，src 可以是 builtin:* 形式或文件路径。
type FontResource struct {
	Name      string `json:"name"`
	Src       string `json:"src"`
	Style     string `json:"style"`
	Family    string `json:"family"`    // 渲染器使用的 Family 名称
	IsBuiltin bool   `json:"isBuiltin"` // 是否为内建字体
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Page 记录页面尺寸、边距与最终可以直接渲染的元素。
type Page struct {
	Width   float64    `json:"width"`
	Height  float64    `json:"height"`
	Margin  Margin     `json:"margin"`
	Texts   []TextBox  `json:"texts"`
	Tables  []TableBox `json:"tables"`
	Lines   []Line     `json:"lines,omitempty"`
	Rects   []Rect     `json:"rects,omitempty"`
	Circles []Circle   `json:"circles,omitempty"`
	// 页眉与页脚：每页恰好一份
	Header HeaderFooter `json:"header"`
	Footer HeaderFooter `json:"footer"`
}

// HeaderFooter 描述页眉/页脚区域的固定高度与元素集合。
type HeaderFooter struct {
	Height  float64   `json:"height"`
	Texts   []TextBox `json:"texts"`
	Lines   []Line    `json:"lines,omitempty"`
	Rects   []Rect    `json:"rects,omitempty"`
	Circles []Circle  `json:"circles,omitempty"`
}

// Margin 以毫米为单位。Top is where flowing content starts on every page.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// TextBox 表示一个已经排好坐标的文本块。
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	LineHeight float64    `json:"lineHeight"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"` // mm
	Color      Color      `json:"color"`
	Lines      []TextLine `json:"lines"`
	Height     float64    `json:"height"`
	Align      string     `json:"align,omitempty"`  // left/center/right（默认 left）
	Anchor     string     `json:"anchor,omitempty"` // top（默认）/baseline：Y 为首行基线
}

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// TableBox 保存表格布局信息。Cells carry absolute positions; the border
// rectangle spans the rows placed on this page.
type TableBox struct {
	X            float64    `json:"x"`
	Y            float64    `json:"y"`
	Width        float64    `json:"width"`
	Height       float64    `json:"height"`
	ColumnWidths []float64  `json:"columnWidths"`
	Rows         []TableRow `json:"rows"`
	BorderColor  Color      `json:"borderColor"`
	BorderRadius float64    `json:"borderRadius,omitempty"`
}

// TableRow 记录每一行的高度、底色与单元格。
type TableRow struct {
	Y        float64     `json:"y"`
	Height   float64     `json:"height"`
	IsHeader bool        `json:"isHeader"`
	Fill     *Color      `json:"fill,omitempty"`
	Cells    []TableCell `json:"cells"`
}

// TableCell 复用 TextBox 作为单元格内容。
type TableCell struct {
	Text TextBox `json:"text"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（mm），<=0 时由渲染器给默认值
}

// Rect 表示一个矩形，Radius > 0 时为圆角矩形。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Radius      float64 `json:"radius,omitempty"`
	StrokeColor *Color  `json:"strokeColor,omitempty"` // 为空表示不描边
	StrokeWidth float64 `json:"strokeWidth"`
	FillColor   *Color  `json:"fillColor,omitempty"` // 为空表示不填充
}

// Circle 表示一个圆。
type Circle struct {
	CX          float64 `json:"cx"`
	CY          float64 `json:"cy"`
	R           float64 `json:"r"`
	StrokeColor *Color  `json:"strokeColor,omitempty"`
	StrokeWidth float64 `json:"strokeWidth"`
	FillColor   *Color  `json:"fillColor,omitempty"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
