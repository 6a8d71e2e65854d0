// Package plan reads the section plan: for each report variant, which
// sections are drawn, in which order, and with which captions and sizes.
package plan

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/rarotec/relatorios/layout"
	"github.com/rarotec/relatorios/report"
)

//go:embed sections.plan
var defaultSource string

// ErrUnknownVariant is returned when a plan has no entry for a variant.
var ErrUnknownVariant = errors.New("plan: unknown report variant")

// Kind names a section shape the composer knows how to draw.
type Kind string

const (
	General     Kind = "general"
	Entities    Kind = "entities"
	Modules     Kind = "modules"
	Services    Kind = "services"
	Stages      Kind = "stages"
	Critical    Kind = "critical"
	Solutions   Kind = "solutions"
	Notes       Kind = "notes"
	Summary     Kind = "summary"
	ServiceDate Kind = "date"
	Technicians Kind = "technicians"
)

var knownKinds = map[Kind]bool{
	General: true, Entities: true, Modules: true, Services: true, Stages: true,
	Critical: true, Solutions: true, Notes: true, Summary: true, ServiceDate: true,
	Technicians: true,
}

// Condition decides whether an optional section is drawn.
type Condition string

const (
	Always       Condition = "always"
	HasEntities  Condition = "entities"
	HasStages    Condition = "stages"
	HasCritical  Condition = "critical"
	HasSolutions Condition = "solutions"
	HasNotes     Condition = "notes"
)

var knownConditions = map[Condition]bool{
	Always: true, HasEntities: true, HasStages: true, HasCritical: true,
	HasSolutions: true, HasNotes: true,
}

// Holds reports whether d satisfies the condition.
func (c Condition) Holds(d *report.Data) bool {
	switch c {
	case HasEntities:
		return len(d.Entities) > 0
	case HasStages:
		return len(d.Stages) > 0
	case HasCritical:
		return len(d.CriticalSituations) > 0
	case HasSolutions:
		return len(d.Solutions) > 0
	case HasNotes:
		return strings.TrimSpace(d.AdditionalDetails) != ""
	default:
		return true
	}
}

// Section is one validated plan entry. Min and Pad are in millimetres.
type Section struct {
	Kind  Kind
	Title string
	Label string
	When  Condition
	Min   float64
	Pad   float64
	Align string
}

// Plan is the ordered section list of one variant.
type Plan struct {
	Variant  report.Variant
	Title    string
	Sections []Section
}

// Active returns the sections whose condition holds for d.
func (p *Plan) Active(d *report.Data) []Section {
	out := make([]Section, 0, len(p.Sections))
	for _, s := range p.Sections {
		if s.When.Holds(d) {
			out = append(out, s)
		}
	}
	return out
}

// Set holds the plans of every variant.
type Set struct {
	plans map[report.Variant]*Plan
	order []report.Variant
}

// Plan returns the plan for v.
func (s *Set) Plan(v report.Variant) (*Plan, error) {
	if s != nil {
		if p, ok := s.plans[v]; ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
}

// Variants lists the planned variants in file order.
func (s *Set) Variants() []report.Variant {
	return append([]report.Variant(nil), s.order...)
}

// Default returns the embedded plan.
func Default() (*Set, error) {
	return ParseString("sections.plan", defaultSource)
}

// Parse reads and validates a plan.
func Parse(name string, r io.Reader) (*Set, error) {
	file, err := ParseFile(name, r)
	if err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	return Compile(file)
}

// ParseString reads and validates a plan held in a string.
func ParseString(name, input string) (*Set, error) {
	file, err := ParseFileString(name, input)
	if err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	return Compile(file)
}

// Load reads a plan file from fs.
func Load(fs afero.Fs, path string) (*Set, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plan %s: %w", path, err)
	}
	defer f.Close()
	return Parse(path, f)
}

// Compile validates a parsed plan and converts it into typed sections.
func Compile(file *File) (*Set, error) {
	set := &Set{plans: make(map[report.Variant]*Plan)}
	for _, decl := range file.Reports {
		v, err := report.ParseVariant(decl.Variant)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", decl.Pos, err)
		}
		if _, dup := set.plans[v]; dup {
			return nil, fmt.Errorf("%s: report %s declared twice", decl.Pos, v)
		}
		p := &Plan{Variant: v, Title: v.Title()}
		if decl.Title != nil {
			p.Title = string(*decl.Title)
		}
		for _, sd := range decl.Sections {
			sec, err := compileSection(sd)
			if err != nil {
				return nil, err
			}
			p.Sections = append(p.Sections, sec)
		}
		set.plans[v] = p
		set.order = append(set.order, v)
	}
	if len(set.order) == 0 {
		return nil, errors.New("plan: no report declared")
	}
	return set, nil
}

func compileSection(sd *SectionDecl) (Section, error) {
	sec := Section{Kind: Kind(sd.Kind), When: Always}
	if !knownKinds[sec.Kind] {
		return Section{}, fmt.Errorf("%s: unknown section %q", sd.Pos, sd.Kind)
	}
	for _, opt := range sd.Options {
		raw := opt.Value.Text()
		switch opt.Key {
		case "title":
			sec.Title = raw
		case "label":
			sec.Label = raw
		case "align":
			if raw != "left" && raw != "center" && raw != "right" {
				return Section{}, fmt.Errorf("%s: invalid align %q", opt.Pos, raw)
			}
			sec.Align = raw
		case "when":
			sec.When = Condition(raw)
			if !knownConditions[sec.When] {
				return Section{}, fmt.Errorf("%s: unknown condition %q", opt.Pos, raw)
			}
		case "min", "pad":
			l, err := layout.ParseLength(raw)
			if err != nil {
				return Section{}, fmt.Errorf("%s: %s: %w", opt.Pos, opt.Key, err)
			}
			if opt.Key == "min" {
				sec.Min = l.ToMM()
			} else {
				sec.Pad = l.ToMM()
			}
		default:
			return Section{}, fmt.Errorf("%s: unknown option %q", opt.Pos, opt.Key)
		}
	}
	return sec, nil
}
