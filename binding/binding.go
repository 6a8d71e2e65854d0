// Package binding expands ${name} placeholders in output file names and in
// the fixed strings stamped on every page.
package binding

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Vars maps placeholder names to values. Nested maps are reached with dotted
// paths such as ${report.slug}, and slices with ${items[0]}.
type Vars map[string]any

// Template is a string with ${path} placeholders.
type Template string

// Expand 将模板中的 ${path} 替换为 vars 中的值；找不到的占位符原样保留。
func (t Template) Expand(vars Vars) string {
	return Interpolate(string(t), vars)
}

// Placeholders returns the distinct placeholder paths, sorted.
func (t Template) Placeholders() []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range exprPattern.FindAllStringSubmatch(string(t), -1) {
		p := strings.TrimSpace(m[1])
		if p != "" && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Check fails when the template uses a placeholder whose root name is not in known.
func (t Template) Check(known ...string) error {
	allowed := make(map[string]bool, len(known))
	for _, k := range known {
		allowed[k] = true
	}
	var unknown []string
	for _, p := range t.Placeholders() {
		root, _ := parseSegment(strings.SplitN(p, ".", 2)[0])
		if !allowed[root] {
			unknown = append(unknown, p)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("template %q: unknown placeholder(s) %s", string(t), strings.Join(unknown, ", "))
	}
	return nil
}

// Interpolate replaces every ${path} in text with its value from vars.
func Interpolate(text string, vars Vars) string {
	if len(vars) == 0 {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		if val, ok := resolvePath(map[string]any(vars), path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

func resolvePath(current any, path string) (any, bool) {
	for _, segment := range strings.Split(path, ".") {
		name, indexes := parseSegment(segment)
		if name != "" {
			next, ok := descendMap(current, name)
			if !ok {
				return nil, false
			}
			current = next
		}
		for _, raw := range indexes {
			idx, err := strconv.Atoi(raw)
			if err != nil {
				return nil, false
			}
			next, ok := descendSlice(current, idx)
			if !ok {
				return nil, false
			}
			current = next
		}
	}
	return current, true
}

// parseSegment 拆分 "name[0][1]" 形式的路径段。
func parseSegment(segment string) (string, []string) {
	i := strings.IndexByte(segment, '[')
	if i == -1 {
		return segment, nil
	}
	name, rest := segment[:i], segment[i:]
	var indexes []string
	for strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			break
		}
		indexes = append(indexes, rest[1:end])
		rest = rest[end+1:]
	}
	return name, indexes
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case Vars:
		val, ok := c[key]
		return val, ok
	case map[string]string:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendSlice(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	case []string:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}
