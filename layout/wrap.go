package layout

import (
	"math"
	"strings"
	"unicode/utf8"
)

// DefaultLineHeight is the vertical advance of one wrapped line (mm).
const DefaultLineHeight = 6.0

// Wrap breaks content into lines no wider than width, as reported by measure.
// Runs of blanks collapse to one space, "\n" is a hard break and a word wider
// than width is split between runes. The result is never empty: blank input
// gives one empty line. A width <= 0 disables wrapping.
func Wrap(content string, width float64, measure func(string) float64) []TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}
	content = strings.ReplaceAll(content, "\r", "")

	var lines []TextLine
	emit := func(s string) {
		lines = append(lines, TextLine{Content: s, Width: measure(s)})
	}
	for _, paragraph := range strings.Split(content, "\n") {
		current := ""
		for _, word := range strings.Fields(paragraph) {
			if current != "" {
				candidate := current + " " + word
				if measure(candidate) <= limit {
					current = candidate
					continue
				}
				emit(current)
				current = ""
			}
			if measure(word) <= limit {
				current = word
				continue
			}
			chunks := splitByWidth(word, limit, measure)
			for _, chunk := range chunks[:len(chunks)-1] {
				emit(chunk)
			}
			current = chunks[len(chunks)-1]
		}
		emit(current)
	}
	return lines
}

// splitByWidth 在词内按宽度切分；每段至少保留一个字符。
func splitByWidth(token string, limit float64, measure func(string) float64) []string {
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if measure(builder.String()) > limit && utf8.RuneCountInString(builder.String()) > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}

// LineContents returns the text of each line.
func LineContents(lines []TextLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Content
	}
	return out
}

// JoinLines rebuilds wrapped text with hard breaks, the inverse Wrap honours.
func JoinLines(lines []TextLine) string {
	return strings.Join(LineContents(lines), "\n")
}

// BlockHeight is max(lineCount*lineHeight + padding, minHeight).
func BlockHeight(lineCount int, lineHeight, padding, minHeight float64) float64 {
	if lineCount < 1 {
		lineCount = 1
	}
	return math.Max(float64(lineCount)*lineHeight+padding, minHeight)
}

// FixedTypesetter wraps with a constant advance per rune. It has no font
// dependency, which keeps layout results reproducible in tests.
type FixedTypesetter struct {
	Advance float64 // mm per rune; <= 0 derives it from the font size
}

var _ Typesetter = FixedTypesetter{}

// LayoutLines implements Typesetter.
func (f FixedTypesetter) LayoutLines(content string, width float64, _ FontResource, fontSize, lineHeight float64, wrap string) ([]TextLine, error) {
	advance := f.Advance
	if advance <= 0 {
		advance = fontSize * 0.5
	}
	if wrap == "nowrap" {
		width = 0
	}
	lines := Wrap(content, width, func(s string) float64 {
		return float64(utf8.RuneCountInString(s)) * advance
	})
	for i := range lines {
		lines[i].Height = lineHeight
	}
	return lines, nil
}

// estimateTextWidth 在没有排版后端时粗略估算宽度（mm）。
func estimateTextWidth(content string, fontSize float64) float64 {
	if fontSize <= 0 {
		fontSize = 12 * PtToMm
	}
	return fontSize * 0.55 * float64(utf8.RuneCountInString(content))
}
