package report

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/inakanou/ArchiTrack-sub015/document"
)

type textCall struct {
	content string
	x, y    float64
}

// stubDocument は描画呼び出しを記録するだけのドキュメント。
// SplitTextToSize は wrapLines 行の固定分割を返す。
type stubDocument struct {
	pages        int
	addPageCalls int
	setPageArgs  []int
	texts        []textCall
	rects        int
	images       []string
	splitCalls   int
	wrapLines    int
	failDataURL  string
	failAll      bool
}

var _ document.Document = (*stubDocument)(nil)

func newStubDocument() *stubDocument { return &stubDocument{pages: 1} }

func (s *stubDocument) SetFont(string)          {}
func (s *stubDocument) SetFontSize(float64)     {}
func (s *stubDocument) SetTextColor(_, _, _ int) {}
func (s *stubDocument) SetDrawColor(_, _, _ int) {}
func (s *stubDocument) SetFillColor(_, _, _ int) {}
func (s *stubDocument) SetLineWidth(float64)    {}

func (s *stubDocument) Text(content string, x, y float64) {
	s.texts = append(s.texts, textCall{content: content, x: x, y: y})
}
func (s *stubDocument) Line(_, _, _, _ float64) {}
func (s *stubDocument) Rect(_, _, _, _ float64) { s.rects++ }

func (s *stubDocument) AddImage(dataURL, _ string, _, _, _, _ float64) error {
	if s.failAll || (s.failDataURL != "" && dataURL == s.failDataURL) {
		return fmt.Errorf("壊れた画像データ")
	}
	s.images = append(s.images, dataURL)
	return nil
}

func (s *stubDocument) AddPage() {
	s.pages++
	s.addPageCalls++
}
func (s *stubDocument) PageCount() int { return s.pages }
func (s *stubDocument) SetPage(n int)  { s.setPageArgs = append(s.setPageArgs, n) }

func (s *stubDocument) SplitTextToSize(text string, _ float64) []string {
	s.splitCalls++
	n := s.wrapLines
	if n <= 0 {
		n = 1
	}
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("%s#%d", text, i+1)
	}
	return lines
}

func (s *stubDocument) TextWidth(text string) float64 {
	return float64(len([]rune(text))) * 2
}
func (s *stubDocument) PageWidth() float64  { return 210 }
func (s *stubDocument) PageHeight() float64 { return 297 }

func makeImages(n int) []AnnotatedImage {
	imgs := make([]AnnotatedImage, n)
	for i := range imgs {
		imgs[i] = AnnotatedImage{
			ImageInfo: SurveyImage{Width: 1600, Height: 1200, FileName: fmt.Sprintf("site-%02d.jpg", i+1)},
			DataURL:   fmt.Sprintf("data:image/jpeg;base64,IMG%d", i+1),
			Comment:   fmt.Sprintf("北側外壁のひび割れ %d", i+1),
		}
	}
	return imgs
}

func testSurvey() *SurveyDetail {
	return &SurveyDetail{
		Name:       "外壁劣化調査",
		SurveyDate: "2025-03-07",
		Project:    Project{Name: "中央区第３庁舎"},
	}
}

func TestGenerateReportRequiresDocument(t *testing.T) {
	err := GenerateReport(nil, testSurvey(), nil, DefaultGenerateOptions())
	if err == nil || !strings.Contains(err.Error(), "ドキュメント") {
		t.Fatalf("doc が nil の場合のエラーが不正: %v", err)
	}
}

func TestGenerateReportRequiresSurvey(t *testing.T) {
	doc := newStubDocument()
	err := GenerateReport(doc, nil, nil, DefaultGenerateOptions())
	if err == nil || !strings.Contains(err.Error(), "調査情報") {
		t.Fatalf("survey が nil の場合のエラーが不正: %v", err)
	}
	if len(doc.texts) != 0 || doc.addPageCalls != 0 {
		t.Fatalf("前提条件エラー時に描画が発生した: texts=%d addPage=%d", len(doc.texts), doc.addPageCalls)
	}
}

func TestGenerateSurveyReportRequiresSurvey(t *testing.T) {
	doc := newStubDocument()
	err := GenerateSurveyReport(doc, nil, makeImages(3), DefaultGenerateOptions())
	if err == nil {
		t.Fatal("survey が nil でもエラーにならなかった")
	}
	if len(doc.texts) != 0 {
		t.Fatalf("前提条件エラー時に描画が発生した: %v", doc.texts)
	}
}

func TestGridAddPageCount(t *testing.T) {
	for n := 1; n <= 15; n++ {
		doc := newStubDocument()
		renderImagesSection3PerPage(doc, makeImages(n))
		want := (n+PDFReportLayoutV2.ImagesPerPage-1)/PDFReportLayoutV2.ImagesPerPage - 1
		if want < 0 {
			want = 0
		}
		if doc.addPageCalls != want {
			t.Fatalf("%d 枚での改ページ回数 = %d, want %d", n, doc.addPageCalls, want)
		}
	}
}

func TestGenerateSurveyReportZeroImages(t *testing.T) {
	doc := newStubDocument()
	if err := GenerateSurveyReport(doc, testSurvey(), nil, DefaultGenerateOptions()); err != nil {
		t.Fatalf("生成に失敗した: %v", err)
	}
	if doc.addPageCalls != 0 {
		t.Fatalf("写真 0 枚で改ページが発生した: %d", doc.addPageCalls)
	}
	if doc.pages != 1 {
		t.Fatalf("写真 0 枚の帳票は 1 ページのはず: %d", doc.pages)
	}
}

func TestGenerateSurveyReportNineImages(t *testing.T) {
	doc := newStubDocument()
	if err := GenerateSurveyReport(doc, testSurvey(), makeImages(9), DefaultGenerateOptions()); err != nil {
		t.Fatalf("生成に失敗した: %v", err)
	}
	// 調査情報 1 ページ + 写真 3 ページ
	if doc.pages != 4 {
		t.Fatalf("総ページ数 = %d, want 4", doc.pages)
	}
	if len(doc.images) != 9 {
		t.Fatalf("配置された画像数 = %d, want 9", len(doc.images))
	}
}

func TestGridSingleImageStartsOnNewPage(t *testing.T) {
	doc := newStubDocument()
	if err := GenerateSurveyReport(doc, testSurvey(), makeImages(1), DefaultGenerateOptions()); err != nil {
		t.Fatalf("生成に失敗した: %v", err)
	}
	if doc.addPageCalls != 1 || doc.pages != 2 {
		t.Fatalf("写真 1 枚の帳票は 2 ページのはず: addPage=%d pages=%d", doc.addPageCalls, doc.pages)
	}
}

func TestGridCommentTruncation(t *testing.T) {
	doc := newStubDocument()
	doc.wrapLines = PDFReportLayoutV2.CommentMaxLines + 8
	renderImagesSection3PerPage(doc, makeImages(1))

	var commentLines []string
	for _, call := range doc.texts {
		if strings.Contains(call.content, "#") {
			commentLines = append(commentLines, call.content)
		}
	}
	if len(commentLines) != PDFReportLayoutV2.CommentMaxLines {
		t.Fatalf("コメント行数 = %d, want %d", len(commentLines), PDFReportLayoutV2.CommentMaxLines)
	}
	last := commentLines[len(commentLines)-1]
	if !strings.HasSuffix(last, "...") {
		t.Fatalf("打ち切られた最終行に ... が付いていない: %q", last)
	}
}

func TestGridSkipsBlankComments(t *testing.T) {
	doc := newStubDocument()
	images := makeImages(3)
	images[0].Comment = ""
	images[1].Comment = "   "
	images[2].Comment = "\n\t"
	renderImagesSection3PerPage(doc, images)
	if doc.splitCalls != 0 {
		t.Fatalf("空白コメントで折り返し処理が走った: %d", doc.splitCalls)
	}
}

func TestGridPlaceholderOnBrokenImage(t *testing.T) {
	doc := newStubDocument()
	images := makeImages(3)
	doc.failDataURL = images[1].DataURL
	renderImagesSection3PerPage(doc, images)

	if len(doc.images) != 2 {
		t.Fatalf("残りの画像が配置されていない: %d", len(doc.images))
	}
	if doc.rects != 1 {
		t.Fatalf("代替枠の描画回数 = %d, want 1", doc.rects)
	}
	found := false
	for _, call := range doc.texts {
		if call.content == "画像を読み込めませんでした" {
			found = true
		}
	}
	if !found {
		t.Fatal("代替文言が描画されていない")
	}
}

func TestRenderPageNumbers(t *testing.T) {
	doc := newStubDocument()
	doc.pages = 5
	renderPageNumbers(doc)

	if len(doc.setPageArgs) != 5 {
		t.Fatalf("SetPage の呼び出し回数 = %d, want 5", len(doc.setPageArgs))
	}
	for i, n := range doc.setPageArgs {
		if n != i+1 {
			t.Fatalf("SetPage の順序が不正: %v", doc.setPageArgs)
		}
	}
	footer := regexp.MustCompile(`^\d+ / \d+$`)
	if len(doc.texts) != 5 {
		t.Fatalf("フッターの描画回数 = %d, want 5", len(doc.texts))
	}
	for i, call := range doc.texts {
		if !footer.MatchString(call.content) {
			t.Fatalf("フッターの書式が不正: %q", call.content)
		}
		if want := fmt.Sprintf("%d / 5", i+1); call.content != want {
			t.Fatalf("フッター = %q, want %q", call.content, want)
		}
	}
}

func TestGenerateReportCoverAndInfo(t *testing.T) {
	doc := newStubDocument()
	if err := GenerateReport(doc, testSurvey(), nil, DefaultGenerateOptions()); err != nil {
		t.Fatalf("生成に失敗した: %v", err)
	}
	// 表紙の後に本文用の改ページが 1 回入る
	if doc.addPageCalls != 1 {
		t.Fatalf("表紙後の改ページ回数 = %d, want 1", doc.addPageCalls)
	}
	var contents []string
	for _, call := range doc.texts {
		contents = append(contents, call.content)
	}
	joined := strings.Join(contents, "\n")
	for _, want := range []string{"外壁劣化調査", "2025年3月7日", "中央区第３庁舎", "調査情報"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("%q が描画されていない:\n%s", want, joined)
		}
	}
}

func TestGenerateReportMemoWrapped(t *testing.T) {
	doc := newStubDocument()
	doc.wrapLines = 3
	survey := testSurvey()
	survey.Memo = "足場設置時に再確認のこと"
	opts := DefaultGenerateOptions()
	opts.IncludeCoverPage = false
	if err := GenerateReport(doc, survey, nil, opts); err != nil {
		t.Fatalf("生成に失敗した: %v", err)
	}
	wrapped := 0
	for _, call := range doc.texts {
		if strings.Contains(call.content, "#") {
			wrapped++
		}
	}
	if wrapped != 3 {
		t.Fatalf("備考の折り返し行数 = %d, want 3", wrapped)
	}
}

func TestRenderImagesSectionOverflow(t *testing.T) {
	doc := newStubDocument()
	images := makeImages(1)
	images[0].ImageInfo = SurveyImage{Width: 1000, Height: 1000}
	// 開始位置がページ下端に近く、正方形画像は収まらない
	renderImagesSection(doc, images, 250)
	if doc.addPageCalls != 1 {
		t.Fatalf("はみ出す画像で改ページされなかった: %d", doc.addPageCalls)
	}
	if len(doc.images) != 1 {
		t.Fatalf("画像が配置されていない: %d", len(doc.images))
	}
}

func TestGenerateReportOptionsOff(t *testing.T) {
	doc := newStubDocument()
	opts := GenerateOptions{}
	if err := GenerateReport(doc, testSurvey(), makeImages(3), opts); err != nil {
		t.Fatalf("生成に失敗した: %v", err)
	}
	if len(doc.texts) != 0 || doc.addPageCalls != 0 || len(doc.images) != 0 {
		t.Fatalf("全セクション無効でも描画が発生した: texts=%d", len(doc.texts))
	}
}

func TestImageFormat(t *testing.T) {
	cases := map[string]string{
		"data:image/jpeg;base64,xxx": "JPEG",
		"data:image/jpg;base64,xxx":  "JPEG",
		"data:image/gif;base64,xxx":  "GIF",
		"data:image/png;base64,xxx":  "PNG",
		"data:application/octet-stream;base64,xxx": "PNG",
	}
	for in, want := range cases {
		if got := imageFormat(in); got != want {
			t.Fatalf("imageFormat(%q) = %q, want %q", in, got, want)
		}
	}
}
