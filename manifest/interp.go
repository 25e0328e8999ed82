package manifest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// interpolate はテキスト中の ${path.to.value} を data の値で置き換える。
// data が nil、またはパスが解決できない場合はプレースホルダーをそのまま残す。
// コメントのテンプレート（例 "${survey.name} 北側"）の展開に使う。
func interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := placeholderPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path := strings.TrimSpace(groups[1])
		if path == "" {
			return match
		}
		if val, ok := lookupPath(data, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// lookupPath は "a.b[0].c" 形式のパスで data を掘る。
func lookupPath(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes := splitSegment(segment)
		if name != "" {
			m, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			current, ok = m[name]
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			arr, ok := current.([]any)
			if !ok || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

// splitSegment は "images[1][2]" を名前部と添字列に分ける。
func splitSegment(segment string) (string, []string) {
	i := strings.Index(segment, "[")
	if i < 0 {
		return segment, nil
	}
	name := segment[:i]
	var indexes []string
	rest := segment[i:]
	for strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		indexes = append(indexes, rest[1:end])
		rest = rest[end+1:]
	}
	return name, indexes
}
