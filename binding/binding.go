// Package binding expands ${path} placeholders in name templates.
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// ${path:layout} 形式会用 layout 格式化 time.Time 值。
// 若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data map[string]any) string {
	if data == nil {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path, format, _ := strings.Cut(groups[1], ":")
		path = strings.TrimSpace(path)
		if path == "" {
			return match
		}
		val, ok := resolvePath(data, path)
		if !ok {
			return match
		}
		return formatValue(val, format)
	})
}

// Unresolved lists placeholders left in an interpolated text.
func Unresolved(text string) []string {
	var out []string
	for _, m := range exprPattern.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

func formatValue(val any, format string) string {
	switch v := val.(type) {
	case time.Time:
		if format == "" {
			format = time.RFC3339
		}
		return v.Format(format)
	case fmt.Stringer:
		return v.String()
	default:
		if format != "" {
			return fmt.Sprintf(format, v)
		}
		return fmt.Sprint(v)
	}
}

func resolvePath(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes := parseSegment(segment)
		if name != "" {
			var ok bool
			current, ok = descendMap(current, name)
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			var ok bool
			current, ok = descendSlice(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []string) {
	name, rest, found := strings.Cut(segment, "[")
	if !found {
		return segment, nil
	}
	var indexes []string
	rest = "[" + rest
	for len(rest) > 0 && rest[0] == '[' {
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
