package compose

import (
	"fmt"

	"github.com/rarotec/relatorios/layout"
	"github.com/rarotec/relatorios/plan"
	"github.com/rarotec/relatorios/report"
)

// Fixed captions that are part of a section's shape rather than the plan.
const (
	regionLabel       = "ESTADO"
	localityLabel     = "MUNICÍPIO"
	roleColumn        = "FUNÇÃO"
	nameColumn        = "NOME"
	techniciansRow    = "Técnico(s) Especializado(s)"
	clientContactsRow = "Técnico(s)/Gestor(es) do Cliente"
)

func (c *Composer) drawSection(w *layout.SectionWriter, sec plan.Section, d *report.Data) error {
	switch sec.Kind {
	case plan.General:
		return c.drawGeneral(w, sec, d)
	case plan.Entities:
		return c.drawEntities(w, sec, d)
	case plan.Modules:
		return c.drawBox(w, sec, report.JoinWithOther(d.Modules, d.OtherModule))
	case plan.Services:
		return c.drawBox(w, sec, report.JoinWithOther(d.ServicesPerformed, d.OtherService))
	case plan.Summary:
		return c.drawBox(w, sec, report.Or(d.Summary))
	case plan.Critical:
		return c.drawBox(w, sec, report.JoinWithOther(d.CriticalSituations, d.OtherCriticalSituation))
	case plan.Notes:
		return c.drawBox(w, sec, report.Or(d.AdditionalDetails))
	case plan.ServiceDate:
		return c.drawBox(w, sec, d.ServiceDate.Long())
	case plan.Stages:
		return c.drawTable(w, sec, stagesTable(w.ContentWidth(), d.Stages))
	case plan.Solutions:
		return c.drawTable(w, sec, solutionsTable(w.ContentWidth(), d.Solutions))
	case plan.Technicians:
		return c.drawTable(w, sec, w.PairTableSpec(roleColumn, nameColumn, []layout.PairRow{
			{Label: techniciansRow, Value: report.JoinOr(d.Technicians)},
			{Label: clientContactsRow, Value: report.ContactsText(d.ClientContacts)},
		}))
	default:
		return fmt.Errorf("no renderer for section kind %q", sec.Kind)
	}
}

// title draws the section heading, if the plan gives one, kept together
// with the keepWith millimetres that follow it.
func (c *Composer) title(w *layout.SectionWriter, sec plan.Section, keepWith float64) error {
	if sec.Title == "" {
		return nil
	}
	return w.Title(c.caption(sec.Title), keepWith)
}

func (c *Composer) drawGeneral(w *layout.SectionWriter, sec plan.Section, d *report.Data) error {
	blocks, height, err := w.MeasureFieldGrid([]layout.Field{
		{Label: regionLabel, Value: report.Or(d.Region)},
		{Label: localityLabel, Value: report.Or(d.Locality)},
	})
	if err != nil {
		return err
	}
	if err := c.title(w, sec, height); err != nil {
		return err
	}
	w.PlaceFieldGrid(blocks, height)
	return nil
}

func (c *Composer) drawEntities(w *layout.SectionWriter, sec plan.Section, d *report.Data) error {
	items := report.EntityLabels(d.Entities)
	if len(items) == 0 {
		items = []string{report.Fallback}
	}
	list, err := w.MeasureList(items)
	if err != nil {
		return err
	}
	if err := c.title(w, sec, list.Height); err != nil {
		return err
	}
	w.PlaceList(list)
	return nil
}

// drawBox draws a labelled text box. Centred boxes print their value larger,
// as the migration date does.
func (c *Composer) drawBox(w *layout.SectionWriter, sec plan.Section, value string) error {
	style := w.ValueStyle()
	if sec.Align != "" {
		style = style.Aligned(sec.Align)
	}
	if sec.Align == "center" {
		style.Size = 12
	}
	label := ""
	if sec.Label != "" {
		label = c.caption(sec.Label)
	}
	box, err := w.MeasureBox(layout.BoxSpec{
		Label:     label,
		Value:     value,
		Style:     style,
		Padding:   sec.Pad,
		MinHeight: sec.Min,
	})
	if err != nil {
		return err
	}
	if err := c.title(w, sec, box.Height()); err != nil {
		return err
	}
	w.PlaceBox(box)
	return nil
}

func (c *Composer) drawTable(w *layout.SectionWriter, sec plan.Section, spec layout.TableSpec) error {
	table, err := w.MeasureTable(spec)
	if err != nil {
		return err
	}
	if err := c.title(w, sec, table.KeepHeight(w.Flow.Capacity())); err != nil {
		return err
	}
	w.PlaceTable(table)
	return nil
}

// stagesTable lays the migration timeline over fixed fractions of the content width.
func stagesTable(cw float64, stages []report.Stage) layout.TableSpec {
	spec := layout.TableSpec{Columns: []layout.Column{
		{Title: "ETAPA", Offset: layout.BoxInset, Width: cw * 0.45},
		{Title: "SITUAÇÃO", Offset: cw * 0.5, Width: cw*0.2 - 2},
		{Title: "INÍCIO", Offset: cw * 0.7, Width: cw*0.15 - 2},
		{Title: "FIM", Offset: cw * 0.85, Width: cw*0.15 - 2},
	}}
	for _, s := range stages {
		spec.Rows = append(spec.Rows, []string{report.Or(s.Name), report.Or(s.Status), s.Start.Short(), s.End.Short()})
	}
	return spec
}

func solutionsTable(cw float64, solutions []report.Solution) layout.TableSpec {
	spec := layout.TableSpec{Columns: []layout.Column{
		{Title: "DATA", Offset: layout.BoxInset, Width: 28},
		{Title: "DESCRIÇÃO", Offset: 40, Width: cw - 50},
	}}
	for _, s := range solutions {
		spec.Rows = append(spec.Rows, []string{s.Date.Short(), report.Or(s.Description)})
	}
	return spec
}
