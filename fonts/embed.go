// Package fonts serves the built-in font files used by every report.
package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/rarotec/relatorios/layout"
)

// Family is the font family name recorded in the layout resources.
const Family = "Go"

const builtinPrefix = "builtin:"

var builtin = map[string][]byte{
	"Go-Regular.ttf": goregular.TTF,
	"Go-Bold.ttf":    gobold.TTF,
	"Go-Italic.ttf":  goitalic.TTF,
}

// Load 返回内置字体的字节数据，path 可写为 "builtin:Go-Bold.ttf" 或直接 "Go-Bold.ttf"。
func Load(path string) ([]byte, error) {
	name := strings.TrimPrefix(path, builtinPrefix)
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: not found", name)
	}
	return data, nil
}

// Names lists the built-in font files.
func Names() []string {
	out := make([]string, 0, len(builtin))
	for name := range builtin {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resources maps the layout font names to the built-in files.
func Resources() map[string]layout.FontResource {
	res := func(name, file, style string) layout.FontResource {
		return layout.FontResource{
			Name:      name,
			Src:       builtinPrefix + file,
			Style:     style,
			Family:    Family,
			IsBuiltin: true,
		}
	}
	return map[string]layout.FontResource{
		layout.FontRegular: res(layout.FontRegular, "Go-Regular.ttf", "regular"),
		layout.FontBold:    res(layout.FontBold, "Go-Bold.ttf", "bold"),
		layout.FontItalic:  res(layout.FontItalic, "Go-Italic.ttf", "italic"),
	}
}
