package layout

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runeWidth(s string) float64 { return float64(utf8.RuneCountInString(s)) }

func TestWrapEmptyYieldsOneLine(t *testing.T) {
	for _, in := range []string{"", "   ", "\t \r"} {
		lines := Wrap(in, 10, runeWidth)
		require.Len(t, lines, 1, "input %q", in)
		assert.Equal(t, "", lines[0].Content)
	}
}

func TestWrapCollapsesWhitespace(t *testing.T) {
	lines := Wrap("  alpha \t beta   gamma ", 100, runeWidth)
	assert.Equal(t, []string{"alpha beta gamma"}, LineContents(lines))
}

func TestWrapGreedy(t *testing.T) {
	lines := Wrap("aaa bbb ccc ddd", 7, runeWidth)
	assert.Equal(t, []string{"aaa bbb", "ccc ddd"}, LineContents(lines))
	assert.Equal(t, 7.0, lines[0].Width)
}

func TestWrapForceSplitsLongWord(t *testing.T) {
	lines := Wrap("ab abcdefghij cd", 4, runeWidth)
	assert.Equal(t, []string{"ab", "abcd", "efgh", "ij", "cd"}, LineContents(lines))
	for _, l := range lines {
		assert.LessOrEqual(t, l.Width, 4.0)
	}
}

func TestWrapKeepsHardBreaks(t *testing.T) {
	lines := Wrap("foo\n\nbar", 100, runeWidth)
	assert.Equal(t, []string{"foo", "", "bar"}, LineContents(lines))
}

func TestWrapZeroWidthDisablesWrapping(t *testing.T) {
	lines := Wrap("one two three four", 0, runeWidth)
	assert.Equal(t, []string{"one two three four"}, LineContents(lines))
}

func randomText(r *rand.Rand) string {
	words := []string{"a", "módulo", "contabilidade", "x", "folha-de-pagamento", "SP", "migração", "dados", "\n", "supercalifragilisticexpialidocious"}
	n := r.Intn(30)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[r.Intn(len(words))]
	}
	sep := []string{" ", "  ", "\t"}
	return strings.Join(parts, sep[r.Intn(len(sep))])
}

func TestWrapIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		text := randomText(r)
		width := float64(1 + r.Intn(40))
		first := Wrap(text, width, runeWidth)
		second := Wrap(JoinLines(first), width, runeWidth)
		require.Equal(t, LineContents(first), LineContents(second), "text %q width %g", text, width)
	}
}

func TestWrapHeightMonotonic(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		text := randomText(r)
		if strings.TrimSpace(text) == "" {
			continue
		}
		narrow := float64(1 + r.Intn(30))
		wide := narrow + float64(1+r.Intn(30))
		hn := BlockHeight(len(Wrap(text, narrow, runeWidth)), DefaultLineHeight, 0, 0)
		hw := BlockHeight(len(Wrap(text, wide, runeWidth)), DefaultLineHeight, 0, 0)
		require.GreaterOrEqual(t, hn, hw, "text %q narrow %g wide %g", text, narrow, wide)
	}
}

func TestBlockHeight(t *testing.T) {
	assert.Equal(t, 30.0, BlockHeight(1, 6, 15, 30))
	assert.Equal(t, 33.0, BlockHeight(3, 6, 15, 30))
	assert.Equal(t, 50.0, BlockHeight(0, 6, 30, 50))
	assert.Equal(t, 18.0, BlockHeight(3, 6, 0, 10))
}

func TestFixedTypesetter(t *testing.T) {
	ts := FixedTypesetter{Advance: 2}
	lines, err := ts.LayoutLines("abcd efgh ijkl", 10, FontResource{}, 3.5, 6, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"abcd", "efgh", "ijkl"}, LineContents(lines))
	for _, l := range lines {
		assert.Equal(t, 6.0, l.Height)
	}

	lines, err = ts.LayoutLines("abcd efgh ijkl", 10, FontResource{}, 3.5, 6, "nowrap")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestMeasureThreadsLines(t *testing.T) {
	m := Measurer{Typesetter: FixedTypesetter{Advance: 2}}
	b, err := m.Measure("abcd efgh ijkl", 10, TextStyle{Font: FontRegular, Size: 10}, 15, 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"abcd", "efgh", "ijkl"}, b.WrappedLines())
	assert.Equal(t, 33.0, b.RequiredHeight)

	box := b.Box(20, 50)
	assert.Equal(t, "baseline", box.Anchor)
	assert.Len(t, box.Lines, 3)
	assert.Equal(t, 18.0, box.Height)
}

func TestMeasureWithoutTypesetter(t *testing.T) {
	var m Measurer
	b, err := m.Measure("", 50, TextStyle{Size: 10}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, b.WrappedLines())
	assert.Equal(t, DefaultLineHeight, b.RequiredHeight)
}
