package compose

import (
	"time"

	"github.com/rarotec/relatorios/binding"
	"github.com/rarotec/relatorios/layout"
)

// Page furniture positions, in millimetres from the top of the page.
const (
	headerBarHeight    = 12.0
	headerTextBaseline = 8.0
	titleBaseline      = 30.0
	titleRuleY         = 34.0
	subtitleBaseline   = 40.0
	subtitleRuleY      = 44.0
	titleRuleHalfWidth = 50.0
	footerRuleOffset   = 15.0
	footerTextOffset   = 8.0
)

// Footer strings, expanded once per page.
const (
	footerOwnerTemplate = binding.Template("${owner} © ${year}")
	footerPageTemplate  = binding.Template("Página ${page} de ${pages}")
	footerDateTemplate  = binding.Template("Gerado em: ${generated}")
)

// header builds the stamp repeated at the top of every page: the coloured
// bar with the company name and date, the centred title and its rule.
// A non-empty subtitle is printed below the title and pushes the rule down.
func (c *Composer) header(title, subtitle string, now time.Time) (layout.HeaderFooter, error) {
	geo := c.opts.Geometry
	p := c.opts.Palette
	m := c.measurer()
	side := geo.Margin.Left

	hf := layout.HeaderFooter{Height: headerBarHeight}
	hf.Rects = append(hf.Rects, layout.Rect{Width: geo.Width, Height: headerBarHeight, FillColor: &p.Primary})

	company, err := m.Single(c.opts.Company, layout.TextStyle{Font: layout.FontBold, Size: 10, Color: p.White})
	if err != nil {
		return hf, err
	}
	date, err := m.Single(now.Format("02/01/2006"), layout.TextStyle{Font: layout.FontRegular, Size: 8, Color: p.White, Align: "right"})
	if err != nil {
		return hf, err
	}
	hf.Texts = append(hf.Texts, company.Box(side, headerTextBaseline), spanBox(date, side, geo.Width-2*side, headerTextBaseline))

	heading, err := m.Single(title, layout.TextStyle{Font: layout.FontBold, Size: 22, Color: p.Primary, Align: "center"})
	if err != nil {
		return hf, err
	}
	hf.Texts = append(hf.Texts, spanBox(heading, 0, geo.Width, titleBaseline))

	ruleY := titleRuleY
	if subtitle != "" {
		sub, err := m.Single(subtitle, layout.TextStyle{Font: layout.FontBold, Size: 14, Color: p.Primary, Align: "center"})
		if err != nil {
			return hf, err
		}
		hf.Texts = append(hf.Texts, spanBox(sub, 0, geo.Width, subtitleBaseline))
		ruleY = subtitleRuleY
	}
	mid := geo.Width / 2
	hf.Lines = append(hf.Lines, layout.Line{
		X1: mid - titleRuleHalfWidth, Y1: ruleY,
		X2: mid + titleRuleHalfWidth, Y2: ruleY,
		Color: p.Secondary, Width: 0.5,
	})
	return hf, nil
}

// footerVars are the values shared by every footer of one document.
func (c *Composer) footerVars(now time.Time) binding.Vars {
	return binding.Vars{
		"owner":     c.opts.Owner,
		"company":   c.opts.Company,
		"year":      now.Year(),
		"generated": now.Format("02/01/2006 15:04"),
	}
}

// footer returns the stamp function handed to Flow.Finalize. Measurement
// errors cannot surface from there, so the first one is kept in errp.
func (c *Composer) footer(now time.Time, errp *error) func(page, total int) layout.HeaderFooter {
	geo := c.opts.Geometry
	p := c.opts.Palette
	m := c.measurer()
	side := geo.Margin.Left
	span := geo.Width - 2*side
	baseline := geo.Height - footerTextOffset
	style := layout.TextStyle{Font: layout.FontRegular, Size: 8, Color: p.TextLight}
	base := c.footerVars(now)

	return func(page, total int) layout.HeaderFooter {
		vars := binding.Vars{"page": page, "pages": total}
		for k, v := range base {
			vars[k] = v
		}
		hf := layout.HeaderFooter{Height: footerRuleOffset}
		hf.Lines = append(hf.Lines, layout.Line{
			X1: side, Y1: geo.Height - footerRuleOffset,
			X2: geo.Width - side, Y2: geo.Height - footerRuleOffset,
			Color: p.NeutralDark, Width: 0.2,
		})
		for _, part := range []struct {
			tpl   binding.Template
			align string
		}{
			{footerOwnerTemplate, "left"},
			{footerPageTemplate, "center"},
			{footerDateTemplate, "right"},
		} {
			b, err := m.Single(part.tpl.Expand(vars), style.Aligned(part.align))
			if err != nil {
				if *errp == nil {
					*errp = err
				}
				continue
			}
			hf.Texts = append(hf.Texts, spanBox(b, side, span, baseline))
		}
		return hf
	}
}

// spanBox places a one-line block inside [x, x+width] so its own alignment
// positions it: centred on the span, or flush against its right edge.
func spanBox(b layout.RenderedBlock, x, width, baseline float64) layout.TextBox {
	box := b.Box(x, baseline)
	box.Width = width
	return box
}
