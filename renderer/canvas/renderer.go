package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/rarotec/relatorios/fonts"
	"github.com/rarotec/relatorios/layout"
	"github.com/rarotec/relatorios/renderer"
)

const defaultStrokeWidth = 0.2

// Renderer draws layout results via github.com/tdewolff/canvas. It also
// measures text with the same font faces, so wrapped lines always fit the
// widths they were measured for.
type Renderer struct {
	// injected resources, by built-in name
	fontBlobs map[string][]byte

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	// Fonts overrides built-in font files, keyed by the name after "builtin:".
	Fonts map[string][]byte
}

// NewRenderer creates a renderer that uses the built-in fonts.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with injected font files.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	for name, data := range opts.Fonts {
		if name != "" && len(data) > 0 {
			r.fontBlobs[name] = data
		}
	}
	return r
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page, result.Resources); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// LayoutLines 实现 layout.Typesetter 接口，按真实字宽贪心换行。
// 约定：fontSize/lineHeight 入参均为毫米（mm），创建字体面时换算为 pt。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, toPt(fontSize), layout.Color{})
	if err != nil {
		return nil, err
	}
	if wrap == "nowrap" {
		width = 0
	}
	lines := layout.Wrap(content, width, face.TextWidth)
	if lineHeight <= 0 {
		lineHeight = face.Metrics().LineHeight
	}
	for i := range lines {
		lines[i].Height = lineHeight
	}
	return lines, nil
}

// TextWidth measures a single line in millimetres.
func (r *Renderer) TextWidth(text string, font layout.FontResource, fontSize float64) (float64, error) {
	face, err := r.fontFace(font, toPt(fontSize), layout.Color{})
	if err != nil {
		return 0, err
	}
	return face.TextWidth(text), nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, resources layout.ResourceSet) error {
	// 页眉：先形状作为背景，再文本
	if err := r.drawStamp(ctx, page.Header, resources); err != nil {
		return fmt.Errorf("header: %w", err)
	}

	// 背景形状在主体内容之前绘制
	r.drawRects(ctx, page.Rects)
	r.drawCircles(ctx, page.Circles)
	r.drawLines(ctx, page.Lines)

	if err := r.drawTables(ctx, page.Tables, resources.Fonts); err != nil {
		return err
	}
	for _, tb := range page.Texts {
		if err := r.drawTextBox(ctx, tb, resolveFontResource(tb.Font, resources.Fonts)); err != nil {
			return err
		}
	}

	if err := r.drawStamp(ctx, page.Footer, resources); err != nil {
		return fmt.Errorf("footer: %w", err)
	}
	return nil
}

func (r *Renderer) drawStamp(ctx *canvas.Context, hf layout.HeaderFooter, resources layout.ResourceSet) error {
	r.drawRects(ctx, hf.Rects)
	r.drawCircles(ctx, hf.Circles)
	r.drawLines(ctx, hf.Lines)
	for _, tb := range hf.Texts {
		if err := r.drawTextBox(ctx, tb, resolveFontResource(tb.Font, resources.Fonts)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox, fontRes layout.FontResource) error {
	// TextBox 的坐标/字号/行高均为 mm；创建字体面需要 pt，这里做一次 mm→pt。
	face, err := r.fontFace(fontRes, toPt(tb.FontSize), tb.Color)
	if err != nil {
		return err
	}

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Width: tb.Width, Height: tb.LineHeight}}
	}

	// 处理水平对齐：left（默认）/center/right。
	var textAlign canvas.TextAlign
	var anchorX float64
	switch strings.ToLower(tb.Align) {
	case "center":
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case "right", "end":
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	// baseline 锚点：Y 即首行基线；top 锚点：Y 为首行顶部，加上字体上升部。
	baseline := tb.Y
	if tb.Anchor != "baseline" {
		baseline += face.Metrics().Ascent
	}
	for _, line := range lines {
		ctx.DrawText(anchorX, baseline, canvas.NewTextLine(face, line.Content, textAlign))

		step := line.Height
		if step <= 0 {
			step = tb.LineHeight
		}
		if step <= 0 {
			step = tb.FontSize
		}
		baseline += step
	}
	return nil
}

// drawTables 先画行底色，再画单元格文本，最后画整张表的圆角边框。
func (r *Renderer) drawTables(ctx *canvas.Context, tables []layout.TableBox, fonts map[string]layout.FontResource) error {
	for _, table := range tables {
		for _, row := range table.Rows {
			if row.Fill == nil {
				continue
			}
			radius := 0.0
			if row.IsHeader {
				radius = table.BorderRadius
			}
			r.drawRect(ctx, layout.Rect{X: table.X, Y: row.Y, Width: table.Width, Height: row.Height, Radius: radius, FillColor: row.Fill})
		}
		for _, row := range table.Rows {
			for _, cell := range row.Cells {
				if err := r.drawTextBox(ctx, cell.Text, resolveFontResource(cell.Text.Font, fonts)); err != nil {
					return err
				}
			}
		}
		border := table.BorderColor
		r.drawRect(ctx, layout.Rect{
			X:           table.X,
			Y:           table.Y,
			Width:       table.Width,
			Height:      table.Height,
			Radius:      table.BorderRadius,
			StrokeColor: &border,
			StrokeWidth: 0.1,
		})
	}
	return nil
}

// drawLines 绘制直线列表（毫米单位）
func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line) {
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = defaultStrokeWidth
		}
		ctx.SetFillColor(canvas.Transparent)
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(w)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, p)
	}
}

// drawRects 绘制矩形，Radius > 0 时为圆角矩形
func (r *Renderer) drawRects(ctx *canvas.Context, rects []layout.Rect) {
	for _, rc := range rects {
		r.drawRect(ctx, rc)
	}
}

func (r *Renderer) drawRect(ctx *canvas.Context, rc layout.Rect) {
	if rc.Width <= 0 || rc.Height <= 0 {
		return
	}
	setPaint(ctx, rc.FillColor, rc.StrokeColor, rc.StrokeWidth)
	path := canvas.Rectangle(rc.Width, rc.Height)
	if rc.Radius > 0 {
		path = canvas.RoundedRectangle(rc.Width, rc.Height, rc.Radius)
	}
	ctx.DrawPath(rc.X, rc.Y, path)
}

// drawCircles 绘制圆形，圆心位于 (CX, CY)
func (r *Renderer) drawCircles(ctx *canvas.Context, circles []layout.Circle) {
	for _, c := range circles {
		if c.R <= 0 {
			continue
		}
		setPaint(ctx, c.FillColor, c.StrokeColor, c.StrokeWidth)
		ctx.DrawPath(c.CX, c.CY, canvas.Circle(c.R))
	}
}

// setPaint 为空的颜色表示不填充或不描边。
func setPaint(ctx *canvas.Context, fill, stroke *layout.Color, strokeWidth float64) {
	if fill != nil {
		ctx.SetFillColor(colorFromLayout(*fill))
	} else {
		ctx.SetFillColor(canvas.Transparent)
	}
	if stroke != nil {
		if strokeWidth <= 0 {
			strokeWidth = defaultStrokeWidth
		}
		ctx.SetStrokeColor(colorFromLayout(*stroke))
		ctx.SetStrokeWidth(strokeWidth)
	} else {
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.SetStrokeWidth(0)
	}
}

func (r *Renderer) fontFace(font layout.FontResource, size float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Family
	if familyName == "" {
		familyName = font.Name
	}
	if familyName == "" {
		familyName = fonts.Family
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: canvas.FontRegular}
		return fallback, canvas.FontRegular, nil
	}

	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.FontResource, style canvas.FontStyle) error {
	data, err := r.loadFontBytes(font)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (r *Renderer) loadFontBytes(font layout.FontResource) ([]byte, error) {
	if font.Src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	name := strings.TrimPrefix(strings.TrimPrefix(font.Src, "built-in:"), "builtin:")
	if blob, ok := r.fontBlobs[name]; ok {
		return blob, nil
	}
	return fonts.Load(name)
}

// fallback 在调用方持有 fontMu 时使用。
func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	data, err := fonts.Load("Go-Regular.ttf")
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("relatorios-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallbackFamily = family
	return family, nil
}

func resolveFontResource(name string, fonts map[string]layout.FontResource) layout.FontResource {
	if font, ok := fonts[name]; ok {
		return font
	}
	if font, ok := fonts[layout.FontRegular]; ok {
		return font
	}
	return layout.FontResource{}
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	if strings.Contains(s, "bold") {
		result = canvas.FontBold
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
