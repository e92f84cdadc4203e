// Package fonts 解析字体来源：内置的 Go 字体或磁盘上的字体文件。
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// BuiltinPrefix marks a font source that names one of the embedded fonts.
const BuiltinPrefix = "builtin:"

var builtin = map[string][]byte{
	"goregular":    goregular.TTF,
	"gobold":       gobold.TTF,
	"goitalic":     goitalic.TTF,
	"gobolditalic": gobolditalic.TTF,
	"gomono":       gomono.TTF,
}

// Names 返回全部内置字体名称（已排序）。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Load 返回字体的字节数据。src 可写为 "builtin:goregular" 或字体文件路径，
// 相对路径以 baseDir 为基准。字体文件需为 TrueType 或 OpenType。
func Load(src, baseDir string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("字体缺少 src")
	}
	if name, ok := strings.CutPrefix(src, BuiltinPrefix); ok {
		data, found := builtin[name]
		if !found {
			return nil, fmt.Errorf("找不到内置字体 %s（可用: %s）", src, strings.Join(Names(), ", "))
		}
		return data, nil
	}

	path := src
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("识别字体 %s 失败: %w", src, err)
	}
	switch kind.Extension {
	case "ttf", "otf":
		return data, nil
	}
	return nil, fmt.Errorf("%s 不是 TrueType/OpenType 字体（识别为 %q）", src, kind.Extension)
}
