package plan_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rarotec/relatorios/plan"
	"github.com/rarotec/relatorios/report"
)

func kinds(sections []plan.Section) []plan.Kind {
	out := make([]plan.Kind, len(sections))
	for i, s := range sections {
		out[i] = s.Kind
	}
	return out
}

func TestDefaultPlanOrder(t *testing.T) {
	set, err := plan.Default()
	require.NoError(t, err)
	assert.Equal(t, []report.Variant{report.Service, report.Migration}, set.Variants())

	svc, err := set.Plan(report.Service)
	require.NoError(t, err)
	assert.Equal(t, "Relatório Técnico de Serviços", svc.Title)
	assert.Equal(t, []plan.Kind{
		plan.General, plan.Entities, plan.Modules, plan.Services,
		plan.ServiceDate, plan.Summary, plan.Technicians,
	}, kinds(svc.Sections))

	mig, err := set.Plan(report.Migration)
	require.NoError(t, err)
	assert.Equal(t, []plan.Kind{
		plan.General, plan.Entities, plan.Modules, plan.Stages, plan.Critical,
		plan.Solutions, plan.Notes, plan.ServiceDate, plan.Technicians,
	}, kinds(mig.Sections))
}

func TestDefaultPlanOptions(t *testing.T) {
	set, err := plan.Default()
	require.NoError(t, err)
	svc, err := set.Plan(report.Service)
	require.NoError(t, err)

	modules := svc.Sections[2]
	assert.Equal(t, "DETALHES DO SERVIÇO", modules.Title)
	assert.Equal(t, "MÓDULOS", modules.Label)
	assert.Equal(t, 30.0, modules.Min)
	assert.Equal(t, 15.0, modules.Pad)

	summary := svc.Sections[5]
	assert.Equal(t, 50.0, summary.Min)
	assert.Equal(t, 30.0, summary.Pad)

	mig, err := set.Plan(report.Migration)
	require.NoError(t, err)
	date := mig.Sections[7]
	assert.Equal(t, "center", date.Align)
	assert.Empty(t, date.Label)
}

func TestActiveSkipsEmptyOptionalSections(t *testing.T) {
	set, err := plan.Default()
	require.NoError(t, err)
	mig, err := set.Plan(report.Migration)
	require.NoError(t, err)

	empty := &report.Data{Variant: report.Migration}
	assert.Equal(t, []plan.Kind{plan.General, plan.Modules, plan.ServiceDate, plan.Technicians}, kinds(mig.Active(empty)))

	full := &report.Data{
		Variant:            report.Migration,
		Entities:           []report.Entity{{Name: "Prefeitura"}},
		Stages:             []report.Stage{{Name: "Carga"}},
		CriticalSituations: []string{"Backup ausente"},
		Solutions:          []report.Solution{{Description: "Refazer"}},
		AdditionalDetails:  "  ok ",
	}
	assert.Len(t, mig.Active(full), len(mig.Sections))

	full.AdditionalDetails = "   "
	assert.NotContains(t, kinds(mig.Active(full)), plan.Notes)
}

func TestParseCustomPlan(t *testing.T) {
	src := `
# só o essencial
report migration {
  section general
  section date title: "QUANDO" min: 1cm
}
`
	set, err := plan.ParseString("custom.plan", src)
	require.NoError(t, err)
	p, err := set.Plan(report.Migration)
	require.NoError(t, err)
	assert.Equal(t, report.Migration.Title(), p.Title)
	require.Len(t, p.Sections, 2)
	assert.Equal(t, "QUANDO", p.Sections[1].Title)
	assert.Equal(t, 10.0, p.Sections[1].Min)
	assert.Equal(t, plan.Always, p.Sections[1].When)

	_, err = set.Plan(report.Service)
	assert.ErrorIs(t, err, plan.ErrUnknownVariant)
}

func TestParseRejectsInvalidPlans(t *testing.T) {
	cases := map[string]string{
		"unknown kind":      "report servicos {\n  section chart\n}\n",
		"unknown option":    "report servicos {\n  section general color: red\n}\n",
		"unknown condition": "report servicos {\n  section entities when: weekend\n}\n",
		"bad align":         "report servicos {\n  section date align: justify\n}\n",
		"bad length":        "report servicos {\n  section date min: x\n}\n",
		"unknown variant":   "report invoices {\n  section general\n}\n",
		"duplicate":         "report servicos {\n}\nreport servicos {\n}\n",
		"empty":             "# nada\n",
		"syntax":            "report servicos {\n  section\n}\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := plan.ParseString("bad.plan", src)
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/relatorios/sections.plan", []byte("report servicos \"Outro título\" {\n  section technicians\n}\n"), 0o644))

	set, err := plan.Load(fs, "/etc/relatorios/sections.plan")
	require.NoError(t, err)
	p, err := set.Plan(report.Service)
	require.NoError(t, err)
	assert.Equal(t, "Outro título", p.Title)

	_, err = plan.Load(fs, "/missing.plan")
	assert.Error(t, err)
}
