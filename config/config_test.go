package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rarotec/relatorios/report"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Sao_Paulo", loc.String())

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)
}

func TestLoadFileAndEnv(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/relatorios.yaml", []byte(`
owner: Outra Empresa
output_dir: /srv/relatorios
log_level: debug
report_template: "${variant}-${id}.pdf"
`), 0o644))
	t.Setenv("RELATORIOS_OUTPUT_DIR", "/tmp/saida")
	t.Setenv("RELATORIOS_TIMEZONE", "UTC")

	cfg, err := Load(fs, "/etc/relatorios.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Outra Empresa", cfg.Owner)
	assert.Equal(t, "RAROTEC", cfg.Company)
	assert.Equal(t, "/tmp/saida", cfg.OutputDir)
	assert.Equal(t, "${variant}-${id}.pdf", cfg.ReportTemplate)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/nope.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"unknown placeholder", func(c *Config) { c.ReportTemplate = "${cliente}.pdf" }, "report_template"},
		{"empty attachments template", func(c *Config) { c.AttachmentsTemplate = " " }, "attachments_template"},
		{"bad timezone", func(c *Config) { c.Timezone = "Marte/Olympus" }, "timezone"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPlans(t *testing.T) {
	cfg := Default()
	set, err := cfg.Plans(afero.NewMemMapFs())
	require.NoError(t, err)
	_, err = set.Plan(report.Migration)
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/plan.txt", []byte(`report servicos "Curto" {
	section summary title: "RESUMO"
}
`), 0o644))
	cfg.PlanFile = "/plan.txt"
	set, err = cfg.Plans(fs)
	require.NoError(t, err)
	p, err := set.Plan(report.Service)
	require.NoError(t, err)
	assert.Equal(t, "Curto", p.Title)
	require.Len(t, p.Sections, 1)

	cfg.PlanFile = "/missing.plan"
	_, err = cfg.Plans(fs)
	assert.Error(t, err)
}
