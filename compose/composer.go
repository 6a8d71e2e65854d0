// Package compose turns report data into laid-out documents: the main
// report, driven by the section plan, and the attachments index.
package compose

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rarotec/relatorios/fonts"
	"github.com/rarotec/relatorios/layout"
	"github.com/rarotec/relatorios/plan"
	"github.com/rarotec/relatorios/report"
)

// Defaults printed on every page.
const (
	DefaultCompany = "RAROTEC"
	DefaultOwner   = "Rarotec Tecnologia"
)

// ErrNoData is returned when Compose is called without a payload.
var ErrNoData = errors.New("compose: no report data")

// Options configures a Composer. Zero fields take their defaults.
type Options struct {
	Typesetter layout.Typesetter
	Fonts      map[string]layout.FontResource
	Plans      *plan.Set
	Palette    layout.Palette
	Geometry   layout.Geometry
	Company    string
	Owner      string
	Location   *time.Location
	Now        func() time.Time
}

// Composer lays out documents. It holds no per-document state, so one
// Composer may compose any number of documents one after another.
type Composer struct {
	opts  Options
	upper cases.Caser
}

// NewComposer applies defaults and loads the embedded plan when none is given.
func NewComposer(opts Options) (*Composer, error) {
	if opts.Plans == nil {
		set, err := plan.Default()
		if err != nil {
			return nil, fmt.Errorf("load default plan: %w", err)
		}
		opts.Plans = set
	}
	if opts.Fonts == nil {
		opts.Fonts = fonts.Resources()
	}
	if opts.Palette == (layout.Palette{}) {
		opts.Palette = layout.DefaultPalette()
	}
	if opts.Geometry == (layout.Geometry{}) {
		opts.Geometry = layout.A4()
	}
	if opts.Company == "" {
		opts.Company = DefaultCompany
	}
	if opts.Owner == "" {
		opts.Owner = DefaultOwner
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Composer{opts: opts, upper: cases.Upper(language.BrazilianPortuguese)}, nil
}

// Plans returns the section plans in use.
func (c *Composer) Plans() *plan.Set { return c.opts.Plans }

// Now returns the current time in the configured location.
func (c *Composer) Now() time.Time { return c.opts.Now().In(c.opts.Location) }

func (c *Composer) measurer() layout.Measurer {
	return layout.Measurer{Typesetter: c.opts.Typesetter, Fonts: c.opts.Fonts}
}

// caption upper-cases a plan title or label the way section headings print.
func (c *Composer) caption(s string) string { return c.upper.String(s) }

// Compose lays out the main report of data's variant.
// Init -> Header -> Section* -> Footer stamp -> Done.
func (c *Composer) Compose(ctx context.Context, data *report.Data) (*layout.Result, error) {
	if data == nil {
		return nil, ErrNoData
	}
	p, err := c.opts.Plans.Plan(data.Variant)
	if err != nil {
		return nil, err
	}
	return c.compose(ctx, data, p, c.Now())
}

func (c *Composer) compose(ctx context.Context, data *report.Data, p *plan.Plan, now time.Time) (*layout.Result, error) {
	log := zerolog.Ctx(ctx)
	header, err := c.header(p.Title, "", now)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	flow := layout.NewFlow(c.opts.Geometry, header)
	w := layout.NewSectionWriter(flow, c.measurer(), c.opts.Palette)

	for _, sec := range p.Active(data) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.drawSection(w, sec, data); err != nil {
			return nil, fmt.Errorf("section %s: %w", sec.Kind, err)
		}
	}

	res, err := c.finish(ctx, flow, now, layout.DocumentMeta{
		Title:   p.Title,
		Subject: data.Variant.Label(),
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Str("variant", data.Variant.String()).Int("pages", len(res.Pages)).Msg("report composed")
	return res, nil
}

// finish stamps footers, reports overflowing blocks and returns the result.
func (c *Composer) finish(ctx context.Context, flow *layout.Flow, now time.Time, meta layout.DocumentMeta) (*layout.Result, error) {
	logOverflows(ctx, flow)
	var footerErr error
	if err := flow.Finalize(c.footer(now, &footerErr)); err != nil {
		return nil, err
	}
	if footerErr != nil {
		return nil, fmt.Errorf("footer: %w", footerErr)
	}
	meta.Author = c.opts.Owner
	meta.Creator = c.opts.Company
	return flow.Result(meta, c.opts.Fonts)
}

// logOverflows warns about blocks that did not fit even an empty page.
func logOverflows(ctx context.Context, flow *layout.Flow) {
	for _, o := range flow.Overflows() {
		zerolog.Ctx(ctx).Warn().Int("page", o.PageIndex+1).Float64("y", o.Y).Msg("block taller than a page was placed past the bottom margin")
	}
}
