package report

import (
	"fmt"
	"strings"

	"github.com/inakanou/ArchiTrack-sub015/document"
)

const (
	sectionSpacing   = 8.0  // セクション間の余白（mm）
	imageSpacing     = 5.0  // 1 カラムレイアウトでの画像間余白（mm）
	labelColumnWidth = 35.0 // 調査情報のラベルカラム幅（mm）

	footerFontSize       = 9.0 // ページ番号のフォントサイズ（pt）
	footerBaselineOffset = 7.0 // ページ下端からページ番号ベースラインまでの距離（mm）
)

// 画像の埋め込みに失敗したスロットへ表示する文言。
const imageErrorPlaceholder = "画像を読み込めませんでした"

// GenerateReport は旧レイアウト（1 カラム）の帳票を doc に描画する。
// 表紙 → 調査情報 → 写真 → ページ番号の順で、opts で有効なセクションのみ描く。
// doc・survey が欠けている場合は一切描画せずにエラーを返す。
func GenerateReport(doc document.Document, survey *SurveyDetail, images []AnnotatedImage, opts GenerateOptions) error {
	if doc == nil {
		return fmt.Errorf("ドキュメントハンドルが必要です")
	}
	if survey == nil {
		return fmt.Errorf("調査情報が必要です")
	}

	if opts.IncludeCoverPage {
		renderCoverPage(doc, survey)
	}
	hasBody := opts.IncludeInfoSection || (opts.IncludeImages && len(images) > 0)
	if opts.IncludeCoverPage && hasBody {
		// 表紙は 1 ページを占有するため、後続セクションは次ページから始める。
		doc.AddPage()
	}

	l := PDFReportLayout
	y := l.PageMargin
	if opts.IncludeInfoSection {
		y = renderInfoSection(doc, survey, l.PageMargin, l.HeaderFontSize, l.BodyFontSize, y)
	}
	if opts.IncludeImages && len(images) > 0 {
		renderImagesSection(doc, images, y)
	}
	if opts.IncludePageNumbers {
		renderPageNumbers(doc)
	}
	return nil
}

// GenerateSurveyReport は写真グリッドレイアウト（3 枚/ページ）の帳票を doc に描画する。
// 1 ページ目に調査情報、写真がある場合はページを改めてグリッドを並べ、
// 最後にページ番号を打つ。写真が 0 枚なら AddPage は一度も呼ばれない。
func GenerateSurveyReport(doc document.Document, survey *SurveyDetail, images []AnnotatedImage, opts GenerateOptions) error {
	if doc == nil {
		return fmt.Errorf("ドキュメントハンドルが必要です")
	}
	if survey == nil {
		return fmt.Errorf("調査情報が必要です")
	}

	l := PDFReportLayoutV2
	if opts.IncludeInfoSection {
		renderInfoSection(doc, survey, l.PageMargin, l.HeaderFontSize, l.BodyFontSize, l.PageMargin)
	}
	if opts.IncludeImages && len(images) > 0 {
		// 調査情報のページと写真ページを分けるため、必ず 1 回だけ改ページする。
		doc.AddPage()
		renderImagesSection3PerPage(doc, images)
	}
	if opts.IncludePageNumbers {
		renderPageNumbers(doc)
	}
	return nil
}

// renderCoverPage は調査名・調査日・プロジェクト名をセンタリングして表紙を描く。
func renderCoverPage(doc document.Document, survey *SurveyDetail) {
	l := PDFReportLayout
	pageW := doc.PageWidth()
	pageH := doc.PageHeight()

	doc.SetFont(DefaultFontFamily)
	doc.SetTextColor(30, 30, 30)

	centered := func(content string, y float64) {
		doc.Text(content, (pageW-doc.TextWidth(content))/2, y)
	}

	y := pageH / 3
	doc.SetFontSize(l.TitleFontSize)
	centered(survey.Name, y)
	y += lineHeightFor(l.TitleFontSize) * 2

	doc.SetFontSize(l.BodyFontSize)
	if date := FormatDateForPDF(survey.SurveyDate); date != "" {
		centered(date, y)
		y += lineHeightFor(l.BodyFontSize) * 1.5
	}
	if survey.Project.Name != "" {
		centered(survey.Project.Name, y)
	}
}

// renderInfoSection は見出しとラベル/値の行を描き、続きのカーソル位置を返す。
// 備考は SplitTextToSize で折り返し、1 行ずつ本文の行送りで描画する。
// 備考が空の場合は何も描かない。
func renderInfoSection(doc document.Document, survey *SurveyDetail, margin, headerSize, bodySize, y float64) float64 {
	contentWidth := doc.PageWidth() - margin*2
	bodyLine := lineHeightFor(bodySize)

	doc.SetFont(DefaultFontFamily)
	doc.SetTextColor(30, 30, 30)

	doc.SetFontSize(headerSize)
	y += lineHeightFor(headerSize)
	doc.Text("調査情報", margin, y)
	doc.SetDrawColor(120, 120, 120)
	doc.SetLineWidth(0.3)
	doc.Line(margin, y+1.5, margin+contentWidth, y+1.5)
	y += lineHeightFor(headerSize)

	doc.SetFontSize(bodySize)
	row := func(label, value string) {
		doc.Text(label, margin, y)
		doc.Text(value, margin+labelColumnWidth, y)
		y += bodyLine
	}
	row("調査名", survey.Name)
	row("調査日", FormatDateForPDF(survey.SurveyDate))
	row("プロジェクト", survey.Project.Name)

	if survey.Memo != "" {
		y += bodyLine * 0.5
		doc.Text("備考", margin, y)
		for _, line := range doc.SplitTextToSize(survey.Memo, contentWidth-labelColumnWidth) {
			doc.Text(line, margin+labelColumnWidth, y)
			y += bodyLine
		}
	}
	return y + sectionSpacing
}

// renderImagesSection は旧レイアウトの写真セクション。画像をコンテンツ幅に
// contain-fit して縦に並べ、次の画像が収まらないページでは改ページする。
func renderImagesSection(doc document.Document, images []AnnotatedImage, y float64) {
	l := PDFReportLayout
	pageW := doc.PageWidth()
	pageH := doc.PageHeight()
	contentWidth := pageW - l.PageMargin*2
	maxContentY := pageH - l.PageMargin

	doc.SetFont(DefaultFontFamily)
	doc.SetFontSize(l.HeaderFontSize)
	y += lineHeightFor(l.HeaderFontSize)
	doc.Text("現場写真", l.PageMargin, y)
	y += sectionSpacing

	for i := range images {
		img := &images[i]
		dims := CalculateImageDimensions(img.ImageInfo.Width, img.ImageInfo.Height, contentWidth, pageH-l.PageMargin*2)
		if dims.Width == 0 {
			dims = ImageDimensions{Width: contentWidth, Height: contentWidth * 0.6}
		}
		if y+dims.Height > maxContentY {
			doc.AddPage()
			y = l.PageMargin
		}
		placeImage(doc, img.DataURL, l.PageMargin, y, dims.Width, dims.Height, l.BodyFontSize)
		y += dims.Height + imageSpacing
	}
}

// renderImagesSection3PerPage は写真グリッド本体。
// imagesOnCurrentPage が ImagesPerPage に達したところで改ページし、カウンタと
// カーソルをページ先頭に戻す。N 枚に対する改ページ回数は max(0, ceil(N/3)-1)。
func renderImagesSection3PerPage(doc document.Document, images []AnnotatedImage) {
	l := PDFReportLayoutV2
	pageW := doc.PageWidth()
	rowWidth := pageW - l.PageMargin*2
	imageColumnWidth := rowWidth * l.ImageWidthRatio
	commentColumnWidth := rowWidth * l.CommentWidthRatio
	imageColumnEnd := l.PageMargin + imageColumnWidth
	gridTop := l.PageMargin + l.HeaderHeight

	doc.SetFont(DefaultFontFamily)
	renderGridPageHeader(doc)
	y := gridTop
	imagesOnCurrentPage := 0

	for i := range images {
		item := &images[i]
		if imagesOnCurrentPage == l.ImagesPerPage {
			doc.AddPage()
			renderGridPageHeader(doc)
			imagesOnCurrentPage = 0
			y = gridTop
		}

		dims := CalculateImageDimensions(item.ImageInfo.Width, item.ImageInfo.Height, imageColumnWidth, l.RowHeight)
		if dims.Width == 0 {
			// 元寸法が不明でもスロット全体を確保する
			dims = ImageDimensions{Width: imageColumnWidth, Height: l.RowHeight}
		}
		placeImage(doc, item.DataURL, l.PageMargin, y, dims.Width, dims.Height, l.CommentFontSize)

		if comment := strings.TrimSpace(item.Comment); comment != "" {
			doc.SetFontSize(l.CommentFontSize)
			lines := doc.SplitTextToSize(comment, commentColumnWidth)
			lines = TruncateCommentLines(lines, l.CommentMaxLines)
			lineY := y + l.CommentFontSize*PtToMm
			for _, line := range lines {
				doc.Text(line, imageColumnEnd, lineY)
				lineY += l.CommentLineHeight
			}
		}

		y += l.RowHeight + l.RowGap
		imagesOnCurrentPage++
	}
}

// renderGridPageHeader は写真ページごとの見出し帯を描く。
func renderGridPageHeader(doc document.Document) {
	l := PDFReportLayoutV2
	pageW := doc.PageWidth()

	doc.SetFontSize(l.HeaderFontSize)
	doc.SetTextColor(30, 30, 30)
	doc.Text("現場写真帳", l.PageMargin, l.PageMargin+l.HeaderFontSize*PtToMm)
	doc.SetDrawColor(120, 120, 120)
	doc.SetLineWidth(0.3)
	ruleY := l.PageMargin + l.HeaderHeight - 4
	doc.Line(l.PageMargin, ruleY, pageW-l.PageMargin, ruleY)
}

// placeImage は画像 1 枚の配置を試みる。埋め込みに失敗した場合は同じスロットに
// 枠と代替文言を描画して処理を続ける。失敗がこの関数の外へ伝播することはなく、
// 壊れた画像 1 枚で帳票全体が失敗することはない。
func placeImage(doc document.Document, dataURL string, x, y, w, h, placeholderFontSize float64) {
	if err := doc.AddImage(dataURL, imageFormat(dataURL), x, y, w, h); err == nil {
		return
	}
	doc.SetDrawColor(180, 180, 180)
	doc.SetLineWidth(0.3)
	doc.Rect(x, y, w, h)
	doc.SetFontSize(placeholderFontSize)
	doc.Text(imageErrorPlaceholder, x+2, y+h/2)
}

// imageFormat は data URL の MIME 部からバックエンドに渡す画像形式名を決める。
func imageFormat(dataURL string) string {
	switch {
	case strings.HasPrefix(dataURL, "data:image/jpeg"), strings.HasPrefix(dataURL, "data:image/jpg"):
		return "JPEG"
	case strings.HasPrefix(dataURL, "data:image/gif"):
		return "GIF"
	default:
		return "PNG"
	}
}

// renderPageNumbers はすべてのコンテンツ確定後に全ページを巡回し、
// フッターに「n / 総数」を打つ。総ページ数は描画が終わるまで分からないため、
// コンテンツのパスとは独立した最終パスとして実行する。
// ページごとに SetPage と Text をちょうど 1 回ずつ呼ぶ。
func renderPageNumbers(doc document.Document) {
	total := doc.PageCount()
	pageW := doc.PageWidth()
	pageH := doc.PageHeight()

	doc.SetFont(DefaultFontFamily)
	doc.SetFontSize(footerFontSize)
	doc.SetTextColor(100, 100, 100)
	for i := 1; i <= total; i++ {
		doc.SetPage(i)
		label := fmt.Sprintf("%d / %d", i, total)
		doc.Text(label, (pageW-doc.TextWidth(label))/2, pageH-footerBaselineOffset)
	}
}
