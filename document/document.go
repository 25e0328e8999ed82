// Package document は帳票レイアウトエンジンが描画に使うドキュメントハンドルを定義する。
// 具体的な PDF バックエンド（fpdf / canvas）はこのインターフェースを実装する。
package document

// Document は 1 回の帳票生成が占有するステートフルな描画面。
// 座標・寸法はすべて mm、フォントサイズのみ pt。
// 生成直後のハンドルは空白の 1 ページ目を持ち、それがカレントページになる。
// 同一ハンドルを複数の生成処理で同時に使ってはならない。
type Document interface {
	// SetFont は以降の描画に使うフォントファミリーを切り替える。
	// 未登録のファミリーはフォールバックに解決され、失敗は呼び出し側から観測できない。
	SetFont(family string)
	// SetFontSize は以降のテキスト描画のフォントサイズ（pt）を設定する。
	SetFontSize(size float64)
	SetTextColor(r, g, b int)
	SetDrawColor(r, g, b int)
	SetFillColor(r, g, b int)
	// SetLineWidth は線・矩形の線幅（mm）を設定する。
	SetLineWidth(w float64)

	// Text は 1 行のテキストを絶対座標に描画する。y はベースライン位置。
	// 折り返しは行わない。呼び出し側が SplitTextToSize で分割済みであること。
	Text(content string, x, y float64)
	Line(x1, y1, x2, y2 float64)
	// Rect は枠線のみの矩形を描画する。
	Rect(x, y, w, h float64)

	// AddImage は data URL 形式の画像を指定領域に配置する。
	// 画像データが壊れている場合はエラーを返すが、ドキュメント自体は
	// 引き続き使用可能な状態を保つ。
	AddImage(dataURL, format string, x, y, w, h float64) error

	// AddPage は末尾にページを追加し、カレントページにする。
	AddPage()
	// PageCount は現在のページ総数を返す。
	PageCount() int
	// SetPage は 1 始まりのページ番号でカレントページを切り替える。
	// ページ番号の後追い描画（スタンプパス）に使う。
	SetPage(n int)

	// SplitTextToSize はカレントフォントの字幅で text を maxWidth（mm）に
	// 収まる行の列に折り返す。
	SplitTextToSize(text string, maxWidth float64) []string

	// TextWidth はカレントフォントで text を描画したときの幅（mm）を返す。
	// センタリング位置の算出に使う。
	TextWidth(text string) float64

	// PageWidth / PageHeight はページ寸法（mm）を返す。
	PageWidth() float64
	PageHeight() float64
}
