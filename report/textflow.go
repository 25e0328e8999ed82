package report

import (
	"fmt"
	"regexp"
	"strconv"
)

var isoDatePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// FormatDateForPDF は ISO 形式（YYYY-MM-DD）の日付を「YYYY年M月D日」に整形する。
// 月・日はゼロ埋めしない（2025-01-01 → 2025年1月1日）。
// 空文字列は空のまま、パターンに一致しない文字列は変換せずそのまま返す。
func FormatDateForPDF(isoDate string) string {
	if isoDate == "" {
		return ""
	}
	m := isoDatePattern.FindStringSubmatch(isoDate)
	if m == nil {
		return isoDate
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%d年%d月%d日", year, month, day)
}

// TruncateCommentLines は折り返し済みの行列を maxLines 行に切り詰める。
// 収まっている場合は入力をそのまま返す。超過する場合は先頭 maxLines 行を残し、
// 最後に残った行の末尾に "..." を連結する（行を追加するのではない）。
// maxLines = 1 なら先頭行に "..." が付く。
func TruncateCommentLines(lines []string, maxLines int) []string {
	if len(lines) <= maxLines {
		return lines
	}
	if maxLines <= 0 {
		return nil
	}
	truncated := make([]string, maxLines)
	copy(truncated, lines[:maxLines])
	truncated[maxLines-1] += "..."
	return truncated
}
