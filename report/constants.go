package report

// レイアウト定数。長さはすべて mm、フォントサイズのみ pt。

// pt と mm の換算係数。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// DefaultFontFamily はエンジンが SetFont に渡すファミリー名。
// バックエンド側で実フォントに解決され、未登録ならフォールバックに落ちる。
const DefaultFontFamily = "NotoSansJP"

// LayoutV1 は旧レイアウト（1 カラム）の定数一式。
type LayoutV1 struct {
	PageMargin     float64 // mm。10〜30 の範囲を守ること
	TitleFontSize  float64 // pt
	BodyFontSize   float64 // pt
	HeaderFontSize float64 // pt
}

// LayoutV2 は 3 枚/ページの写真グリッドレイアウトの定数一式。
type LayoutV2 struct {
	PageMargin        float64 // mm。10〜30 の範囲を守ること
	HeaderFontSize    float64 // pt
	BodyFontSize      float64 // pt
	ImagesPerPage     int
	HeaderHeight      float64 // mm
	FooterHeight      float64 // mm
	RowHeight         float64 // mm
	RowGap            float64 // mm
	ImageWidthRatio   float64 // 行幅に対する画像カラムの比率。0 < r <= 1
	CommentWidthRatio float64 // 行幅に対するコメントカラムの比率
	CommentFontSize   float64 // pt
	CommentLineHeight float64 // mm
	CommentMaxLines   int
}

// PDFReportLayout は旧帳票のジオメトリ。呼び出し側のチューニング用に公開する。
var PDFReportLayout = LayoutV1{
	PageMargin:     20,
	TitleFontSize:  18,
	BodyFontSize:   10.5,
	HeaderFontSize: 14,
}

// PDFReportLayoutV2 は写真グリッド帳票のジオメトリ。
// RowHeight*3 + RowGap*2 が本文領域（ページ高 − 余白 − ヘッダー − フッター）に
// 収まるように選んである。
var PDFReportLayoutV2 = LayoutV2{
	PageMargin:        15,
	HeaderFontSize:    12,
	BodyFontSize:      10.5,
	ImagesPerPage:     3,
	HeaderHeight:      18,
	FooterHeight:      12,
	RowHeight:         70,
	RowGap:            8,
	ImageWidthRatio:   0.45,
	CommentWidthRatio: 0.5,
	CommentFontSize:   9,
	CommentLineHeight: 5,
	CommentMaxLines:   12,
}

// lineHeightFor はフォントサイズ（pt）から行送り（mm）を求める。
func lineHeightFor(fontSize float64) float64 {
	return fontSize * PtToMm * 1.4
}
