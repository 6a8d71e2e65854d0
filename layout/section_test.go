package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWriter() *SectionWriter {
	return NewSectionWriter(NewFlow(A4(), HeaderFooter{}), Measurer{Typesetter: FixedTypesetter{Advance: 2}}, DefaultPalette())
}

func allTexts(f *Flow) []string {
	var out []string
	for _, acc := range f.collector.accs {
		for _, tb := range acc.texts {
			out = append(out, tb.Content)
		}
		for _, tbl := range acc.tables {
			for _, row := range tbl.Rows {
				for _, c := range row.Cells {
					out = append(out, c.Text.Content)
				}
			}
		}
	}
	return out
}

func stageSpec(w *SectionWriter, rows int) TableSpec {
	cw := w.ContentWidth()
	name := strings.TrimSpace(strings.Repeat("abcdefghi ", 10))
	spec := TableSpec{Columns: []Column{
		{Title: "ETAPA", Offset: 10, Width: cw * 0.45},
		{Title: "SITUAÇÃO", Offset: cw * 0.5, Width: cw*0.2 - 2},
		{Title: "INÍCIO", Offset: cw * 0.7, Width: cw*0.15 - 2},
		{Title: "FIM", Offset: cw * 0.85, Width: cw*0.15 - 2},
	}}
	for i := 0; i < rows; i++ {
		spec.Rows = append(spec.Rows, []string{name, "Ok", "01/02/2024", "09/02/2024"})
	}
	return spec
}

func TestTitleAdvancesAndDrawsRule(t *testing.T) {
	w := newTestWriter()
	require.NoError(t, w.Title("ENTIDADES", 0))
	assert.Equal(t, 55.0, w.Flow.Y())
	acc := w.Flow.collector.curr()
	require.Len(t, acc.rects, 1)
	require.Len(t, acc.lines, 1)
	assert.Equal(t, 195.0, acc.lines[0].X2)
}

func TestTitleKeepsWithFollowingBlock(t *testing.T) {
	w := newTestWriter()
	w.Flow.Advance(200)
	require.NoError(t, w.Title("RESUMO DO SERVIÇO", 40))
	assert.Equal(t, 1, w.Flow.Cursor().PageIndex)
}

func TestTitleStaysWithOversizedBox(t *testing.T) {
	w := newTestWriter()
	w.Flow.Advance(100)
	box, err := w.MeasureBox(BoxSpec{Value: strings.Repeat("linha\n", 35)})
	require.NoError(t, err)
	require.Greater(t, box.Height(), w.Flow.Capacity()-SectionTitleHeight)

	require.NoError(t, w.Title("RESUMO DO SERVIÇO", box.Height()))
	w.PlaceBox(box)

	require.Len(t, w.Flow.collector.accs, 2)
	page := w.Flow.collector.accs[1]
	require.Len(t, page.texts, 2)
	assert.Equal(t, "RESUMO DO SERVIÇO", page.texts[0].Content)
	assert.Equal(t, box.Spec.Value, page.texts[1].Content)
	assert.Equal(t, 55.0, page.rects[1].Y)
}

func TestTitleStaysWithNearlyFullPageTable(t *testing.T) {
	w := newTestWriter()
	w.Flow.Advance(50)
	// 10 + 10*21 = 220: fits an empty page, not one that also holds the title.
	spec := stageSpec(w, 10)
	spec.MinRowHeight = 21
	table, err := w.MeasureTable(spec)
	require.NoError(t, err)
	require.InDelta(t, 220.0, table.Height(), 1e-9)
	require.Equal(t, table.Height(), table.KeepHeight(w.Flow.Capacity()))

	require.NoError(t, w.Title("ETAPAS DA MIGRAÇÃO", table.KeepHeight(w.Flow.Capacity())))
	pages := w.PlaceTable(table)
	assert.Equal(t, 2, pages)

	require.Len(t, w.Flow.collector.accs, 3)
	page := w.Flow.collector.accs[1]
	assert.Equal(t, "ETAPAS DA MIGRAÇÃO", page.texts[0].Content)
	require.Len(t, page.tables, 1)
	assert.Equal(t, 55.0, page.tables[0].Y)
	assert.Len(t, page.tables[0].Rows, 10) // header + 9 rows
	assert.Len(t, w.Flow.collector.accs[2].tables[0].Rows, 2)
	assert.Empty(t, w.Flow.Overflows())
}

func TestTitledBoxHeight(t *testing.T) {
	w := newTestWriter()
	// 160mm inner width at 2mm per rune holds 80 runes.
	b, err := w.TitledBox(BoxSpec{Label: "MÓDULOS", Value: strings.Repeat("a", 100), MinHeight: 30})
	require.NoError(t, err)
	assert.Len(t, b.Value.Lines, 2)
	assert.Equal(t, 30.0, b.Height())

	b, err = w.TitledBox(BoxSpec{Label: "MÓDULOS", Value: strings.Repeat("a ", 200), MinHeight: 30})
	require.NoError(t, err)
	assert.Equal(t, float64(len(b.Value.Lines))*6+15, b.Height())
}

func TestModulesBoxScenario(t *testing.T) {
	w := newTestWriter()
	b, err := w.TitledBox(BoxSpec{Label: "MÓDULOS", Value: "Accounting, Custom X"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Accounting, Custom X"}, b.Value.WrappedLines())
	assert.Contains(t, allTexts(w.Flow), "Accounting, Custom X")
}

func TestListHeight(t *testing.T) {
	w := newTestWriter()
	l, err := w.MeasureList([]string{"A (CNPJ: 1)"})
	require.NoError(t, err)
	assert.Equal(t, 30.0, l.Height)

	l, err = w.MeasureList([]string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 46.0, l.Height)
	w.PlaceList(l)
	assert.Len(t, w.Flow.collector.curr().circles, 3)
}

func TestFieldGridSharesHeight(t *testing.T) {
	w := newTestWriter()
	blocks, h, err := w.MeasureFieldGrid([]Field{{Label: "ESTADO", Value: "SP"}, {Label: "MUNICÍPIO", Value: "Campinas"}})
	require.NoError(t, err)
	assert.Equal(t, FieldGridHeight, h)
	w.PlaceFieldGrid(blocks, h)
	acc := w.Flow.collector.curr()
	require.Len(t, acc.rects, 2)
	assert.InDelta(t, 85.0, acc.rects[0].Width, 1e-9)
	assert.InDelta(t, 110.0, acc.rects[1].X, 1e-9)
}

func TestStageTableHeightScenario(t *testing.T) {
	w := newTestWriter()
	tbl, err := w.MeasureTable(stageSpec(w, 5))
	require.NoError(t, err)
	for _, lines := range tbl.RowLines() {
		require.Len(t, lines[0], 3)
	}
	assert.Equal(t, 10.0+5*18.0, tbl.Height())

	start := w.Flow.Y()
	pages := w.PlaceTable(tbl)
	assert.Equal(t, 1, pages)
	acc := w.Flow.collector.curr()
	require.Len(t, acc.tables, 1)
	assert.Equal(t, 100.0, acc.tables[0].Height)
	assert.Equal(t, start, acc.tables[0].Y)
}

func TestStageTableMovesToNextPage(t *testing.T) {
	w := newTestWriter()
	w.Flow.Advance(150) // 72mm left on the page
	tbl, err := w.MeasureTable(stageSpec(w, 5))
	require.NoError(t, err)
	w.PlaceTable(tbl)
	assert.Equal(t, 1, w.Flow.Cursor().PageIndex)
	assert.Empty(t, w.Flow.collector.accs[0].tables)
	require.Len(t, w.Flow.collector.accs[1].tables, 1)
	assert.Equal(t, 45.0, w.Flow.collector.accs[1].tables[0].Y)
}

func TestLongTableRepeatsHeader(t *testing.T) {
	w := newTestWriter()
	tbl, err := w.MeasureTable(stageSpec(w, 20)) // 10 + 360 > one page
	require.NoError(t, err)
	pages := w.PlaceTable(tbl)
	assert.Equal(t, 2, pages)

	placed := 0
	for _, acc := range w.Flow.collector.accs {
		for _, box := range acc.tables {
			require.True(t, box.Rows[0].IsHeader)
			assert.Equal(t, "ETAPA", box.Rows[0].Cells[0].Text.Content)
			placed += len(box.Rows) - 1
			sum := 0.0
			for _, r := range box.Rows {
				sum += r.Height
			}
			assert.Equal(t, sum, box.Height)
			assert.LessOrEqual(t, box.Y+box.Height, 267.0)
		}
	}
	assert.Equal(t, 20, placed)
}

func TestPairTableEmptyContacts(t *testing.T) {
	w := newTestWriter()
	spec := w.PairTableSpec("FUNÇÃO", "NOME", []PairRow{
		{Label: "Técnico(s) Especializado(s)", Value: "Maria, João"},
		{Label: "Técnico(s)/Gestor(es) do Cliente", Value: "Não informado"},
	})
	tbl, err := w.MeasureTable(spec)
	require.NoError(t, err)
	assert.Equal(t, []float64{12, 12}, tbl.RowHeights())
	w.PlaceTable(tbl)
	assert.Contains(t, allTexts(w.Flow), "Não informado")
}

func TestCardsPaginate(t *testing.T) {
	w := newTestWriter()
	for i := 0; i < 6; i++ {
		require.NoError(t, w.Card(CardSpec{Badge: "1", Title: "a.pdf", Details: []string{"Tamanho: 0.10 MB", "Tipo: application/pdf"}}))
	}
	// 222mm per page fits four 40mm cards with 10mm gaps.
	assert.Equal(t, 2, w.Flow.PageCount())
	require.NoError(t, w.Note([]string{"one", "two"}))
}
