package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rarotec/relatorios/compose"
	"github.com/rarotec/relatorios/layout"
)

type stubRenderer struct{ err error }

func (r stubRenderer) Render(*layout.Result) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-stub"), nil
}

type harness struct {
	fs     afero.Fs
	out    *bytes.Buffer
	errOut *bytes.Buffer
	cli    *CLI
}

func newHarness(t *testing.T, r stubRenderer) *harness {
	t.Helper()
	h := &harness{fs: afero.NewMemMapFs(), out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	h.cli = NewCLI(Options{
		Fs:         h.fs,
		Output:     h.out,
		Errors:     h.errOut,
		Renderer:   r,
		Typesetter: layout.FixedTypesetter{Advance: 2},
		Now:        func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) },
	})
	return h
}

func (h *harness) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(h.fs, path, []byte(content), 0o644))
}

func (h *harness) run(args ...string) error {
	h.cli.Root().SetArgs(args)
	return h.cli.Execute()
}

const serviceData = `
tipoRelatorio: servicos
estado: SP
municipio: Campinas
modulos: [Contabilidade]
tecnicos: [Ana]
dataServico: 2024-03-05
`

func TestGenerateCommand(t *testing.T) {
	h := newHarness(t, stubRenderer{})
	h.write(t, "/in/dados.yaml", serviceData)
	h.write(t, "/in/laudo.pdf", "%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")

	err := h.run("generate", "/in/dados.yaml", "--out", "/out", "-a", "/in/laudo.pdf")
	require.NoError(t, err)

	assert.Contains(t, h.out.String(), compose.MessageTwo)
	assert.Contains(t, h.out.String(), "/out/report-servicos-15-03-2024.pdf")
	assert.Contains(t, h.out.String(), "/out/attachments-report-servicos-15-03-2024.pdf")
	for _, p := range []string{"/out/report-servicos-15-03-2024.pdf", "/out/attachments-report-servicos-15-03-2024.pdf"} {
		ok, err := afero.Exists(h.fs, p)
		require.NoError(t, err)
		assert.True(t, ok, p)
	}
}

func TestGenerateCommandVariantOverride(t *testing.T) {
	h := newHarness(t, stubRenderer{})
	h.write(t, "/in/dados.yaml", serviceData)

	require.NoError(t, h.run("generate", "/in/dados.yaml", "-o", "/out", "--variant", "migration"))
	assert.Contains(t, h.out.String(), compose.MessageSingle)
	ok, err := afero.Exists(h.fs, "/out/report-migracao-15-03-2024.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerateCommandUsesConfigFile(t *testing.T) {
	h := newHarness(t, stubRenderer{})
	h.write(t, "/in/dados.yaml", serviceData)
	h.write(t, "/etc/relatorios.yaml", "output_dir: /srv/pdf\nreport_template: \"relatorio-${date}.pdf\"\ntimezone: UTC\n")

	require.NoError(t, h.run("generate", "/in/dados.yaml", "--config", "/etc/relatorios.yaml", "--debug-json", "/debug"))
	ok, err := afero.Exists(h.fs, "/srv/pdf/relatorio-15-03-2024.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = afero.Exists(h.fs, "/debug/relatorio-15-03-2024.json")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerateCommandFailures(t *testing.T) {
	t.Run("missing variant", func(t *testing.T) {
		h := newHarness(t, stubRenderer{})
		h.write(t, "/in/dados.yaml", "estado: SP\n")
		err := h.run("generate", "/in/dados.yaml", "-o", "/out")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no variant")
	})

	t.Run("missing data file", func(t *testing.T) {
		h := newHarness(t, stubRenderer{})
		assert.Error(t, h.run("generate", "/in/nada.yaml"))
	})

	t.Run("missing attachment", func(t *testing.T) {
		h := newHarness(t, stubRenderer{})
		h.write(t, "/in/dados.yaml", serviceData)
		assert.Error(t, h.run("generate", "/in/dados.yaml", "-a", "/in/sumiu.pdf"))
	})

	t.Run("renderer failure", func(t *testing.T) {
		h := newHarness(t, stubRenderer{err: errors.New("sem fonte")})
		h.write(t, "/in/dados.yaml", serviceData)
		err := h.run("generate", "/in/dados.yaml", "-o", "/out")
		require.Error(t, err)
		assert.Contains(t, h.out.String(), compose.MessageFailure)
		assert.Contains(t, h.errOut.String(), "sem fonte")
		ok, _ := afero.DirExists(h.fs, "/out")
		assert.False(t, ok)
	})
}

func TestSectionsCommand(t *testing.T) {
	h := newHarness(t, stubRenderer{})
	require.NoError(t, h.run("sections"))

	out := h.out.String()
	assert.Contains(t, out, "servicos: Relatório Técnico de Serviços")
	assert.Contains(t, out, "migracao: Relatório Técnico de Migração")
	assert.Contains(t, out, "SITUAÇÕES CRÍTICAS IDENTIFICADAS")
	assert.Regexp(t, `1\.\s+general\s+always\s+INFORMAÇÕES GERAIS`, out)
}

func TestSectionsCommandSingleVariant(t *testing.T) {
	h := newHarness(t, stubRenderer{})
	require.NoError(t, h.run("sections", "--variant", "servicos"))
	out := h.out.String()
	assert.Contains(t, out, "RESUMO DO SERVIÇO")
	assert.NotContains(t, out, "ETAPAS DA MIGRAÇÃO")

	assert.Error(t, h.run("sections", "--variant", "faturas"))
}
