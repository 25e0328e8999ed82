// Package canvasdocument は github.com/tdewolff/canvas を使った
// document.Document の実装。ページごとにキャンバスを保持するため、
// ページ番号のスタンプパスで過去のページに戻って描画できる。
package canvasdocument

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tdewolff/canvas"
	canvaspdf "github.com/tdewolff/canvas/renderers/pdf"

	"github.com/inakanou/ArchiTrack-sub015/document"
	"github.com/inakanou/ArchiTrack-sub015/fonts"
	"github.com/inakanou/ArchiTrack-sub015/report"
)

const defaultLineWidth = 0.2 // mm

// Options はドキュメント生成時の設定。
type Options struct {
	// Width/Height はページ寸法（mm）。ゼロなら A4 縦。
	Width  float64
	Height float64
	// Registry からフォントを遅延読み込みする。nil 可。
	Registry *fonts.Registry
	// FontFamily は既定ファミリーのフォールバックチェーン。
	FontFamily string
}

type page struct {
	c   *canvas.Canvas
	ctx *canvas.Context
}

// Document は canvas ベースのドキュメントハンドル。生成直後から 1 ページ目を持つ。
type Document struct {
	width  float64
	height float64

	pages   []*page
	current int

	registry *fonts.Registry
	chain    string
	families map[string]*canvas.FontFamily

	family    string
	sizePt    float64
	textColor color.RGBA
	drawColor color.RGBA
	fillColor color.RGBA
	lineWidth float64
}

var _ document.Document = (*Document)(nil)

// New は空白の 1 ページ目を持つドキュメントを作る。
func New(opts Options) *Document {
	d := &Document{
		width:     210,
		height:    297,
		registry:  opts.Registry,
		chain:     opts.FontFamily,
		families:  map[string]*canvas.FontFamily{},
		family:    opts.FontFamily,
		sizePt:    10.5,
		textColor: color.RGBA{R: 30, G: 30, B: 30, A: 255},
		drawColor: color.RGBA{A: 255},
		lineWidth: defaultLineWidth,
	}
	if opts.Width > 0 && opts.Height > 0 {
		d.width = opts.Width
		d.height = opts.Height
	}
	d.AddPage()
	return d
}

// SetFont はファミリーを切り替える。実フォントへの解決は描画時に行い、
// 解決できない場合はチェーンの残り → 概算計測へ静かにフォールバックする。
func (d *Document) SetFont(family string) { d.family = family }

func (d *Document) SetFontSize(size float64) { d.sizePt = size }

func (d *Document) SetTextColor(r, g, b int) { d.textColor = rgb(r, g, b) }
func (d *Document) SetDrawColor(r, g, b int) { d.drawColor = rgb(r, g, b) }
func (d *Document) SetFillColor(r, g, b int) { d.fillColor = rgb(r, g, b) }
func (d *Document) SetLineWidth(w float64)   { d.lineWidth = w }

// Text は 1 行を描画する。y はベースライン位置（mm）。
func (d *Document) Text(content string, x, y float64) {
	face := d.face()
	if face == nil {
		return
	}
	d.ctx().DrawText(x, y, canvas.NewTextLine(face, content, canvas.Left))
}

func (d *Document) Line(x1, y1, x2, y2 float64) {
	ctx := d.ctx()
	ctx.SetStrokeColor(d.drawColor)
	ctx.SetStrokeWidth(d.strokeWidth())
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(x2-x1, y2-y1)
	ctx.DrawPath(x1, y1, p)
}

func (d *Document) Rect(x, y, w, h float64) {
	ctx := d.ctx()
	ctx.SetFillColor(color.RGBA{})
	ctx.SetStrokeColor(d.drawColor)
	ctx.SetStrokeWidth(d.strokeWidth())
	ctx.DrawPath(x, y, canvas.Rectangle(w, h))
}

// AddImage は data URL をデコードしてカレントページに配置する。
// デコードできない場合のみエラーを返し、ページの状態は変更しない。
func (d *Document) AddImage(dataURL, format string, x, y, w, h float64) error {
	raw, err := decodeDataURL(dataURL)
	if err != nil {
		return err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}
	dx := float64(img.Bounds().Dx())
	if dx <= 0 || w <= 0 {
		return fmt.Errorf("画像の寸法が不正です")
	}
	d.ctx().DrawImage(x, y, img, canvas.DPMM(dx/w))
	return nil
}

// AddPage は末尾にページを追加してカレントにする。
// 座標系はレイアウト側と同じ左上原点（CartesianIV）に揃える。
func (d *Document) AddPage() {
	c := canvas.New(d.width, d.height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	d.pages = append(d.pages, &page{c: c, ctx: ctx})
	d.current = len(d.pages) - 1
}

func (d *Document) PageCount() int { return len(d.pages) }

func (d *Document) SetPage(n int) {
	if n >= 1 && n <= len(d.pages) {
		d.current = n - 1
	}
}

// SplitTextToSize は貪欲法で text を maxWidth（mm）に収まる行へ折り返す。
// 空白の連続を語の区切りとして優先し、1 語が幅を超える場合は文字単位で詰める。
func (d *Document) SplitTextToSize(text string, maxWidth float64) []string {
	limit := maxWidth
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	var lines []string
	var b strings.Builder
	width := 0.0
	emit := func(force bool) {
		if b.Len() == 0 {
			if force {
				lines = append(lines, "")
			}
			return
		}
		lines = append(lines, b.String())
		b.Reset()
		width = 0
	}

	for _, token := range tokenize(text) {
		if token == "\n" {
			emit(true)
			continue
		}
		tw := d.TextWidth(token)
		if width > 0 && width+tw > limit {
			emit(false)
		}
		if tw <= limit {
			b.WriteString(token)
			width += tw
			continue
		}
		for _, r := range token {
			rw := d.TextWidth(string(r))
			if width > 0 && width+rw > limit {
				emit(false)
			}
			b.WriteRune(r)
			width += rw
		}
	}
	emit(false)
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

// TextWidth はカレントフォントでの描画幅（mm）を返す。
// フォントが解決できない場合は文字数ベースの概算に落ちる。
func (d *Document) TextWidth(text string) float64 {
	if face := d.face(); face != nil {
		return face.TextWidth(text)
	}
	return d.sizePt * report.PtToMm * 0.55 * float64(utf8.RuneCountInString(text)+1)
}

func (d *Document) PageWidth() float64  { return d.width }
func (d *Document) PageHeight() float64 { return d.height }

// Output は保持している全ページを canvas の PDF ライターで w へ書き出す。
func (d *Document) Output(w io.Writer) error {
	writer := canvaspdf.New(w, d.width, d.height, nil)
	for i, p := range d.pages {
		if i > 0 {
			writer.NewPage(d.width, d.height)
		}
		p.c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("PDF の出力に失敗しました: %w", err)
	}
	return nil
}

// Bytes は PDF 全体をバイト列で返す。
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) ctx() *canvas.Context { return d.pages[d.current].ctx }

func (d *Document) strokeWidth() float64 {
	if d.lineWidth > 0 {
		return d.lineWidth
	}
	return defaultLineWidth
}

// face はカレントのファミリーチェーンから最初に読み込めたフォント面を返す。
// どれも解決できなければ nil（呼び出し側が概算計測に切り替える）。
func (d *Document) face() *canvas.FontFace {
	fam := d.resolveFamily()
	if fam == nil {
		return nil
	}
	return fam.Face(d.sizePt, d.textColor, canvas.FontRegular, canvas.FontNormal)
}

func (d *Document) resolveFamily() *canvas.FontFamily {
	if d.registry == nil {
		return nil
	}
	names := fonts.SplitChain(d.family)
	names = append(names, fonts.SplitChain(d.chain)...)
	for _, name := range names {
		if fam, seen := d.families[name]; seen {
			if fam != nil {
				return fam
			}
			continue
		}
		data, err := d.registry.Load(name)
		if err != nil {
			d.families[name] = nil
			continue
		}
		fam := canvas.NewFontFamily(name)
		if err := fam.LoadFont(data, 0, canvas.FontRegular); err != nil {
			d.families[name] = nil
			continue
		}
		d.families[name] = fam
		return fam
	}
	return nil
}

// tokenize は空白/非空白の連続と明示的な改行をトークンとして切り出す。
func tokenize(s string) []string {
	var tokens []string
	var b strings.Builder
	lastWasSpace := false
	flush := func() {
		if b.Len() == 0 {
			return
		}
		tokens = append(tokens, b.String())
		b.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if b.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		b.WriteRune(r)
	}
	flush()
	return tokens
}

func rgb(r, g, b int) color.RGBA {
	return color.RGBA{R: clamp8(r), G: clamp8(g), B: clamp8(b), A: 255}
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// decodeDataURL は "data:<mime>;base64,..." 形式の文字列から画像バイト列を取り出す。
func decodeDataURL(dataURL string) ([]byte, error) {
	const marker = ";base64,"
	idx := strings.Index(dataURL, marker)
	if !strings.HasPrefix(dataURL, "data:") || idx < 0 {
		return nil, fmt.Errorf("data URL の形式が不正です")
	}
	raw, err := base64.StdEncoding.DecodeString(dataURL[idx+len(marker):])
	if err != nil {
		return nil, fmt.Errorf("data URL のデコードに失敗しました: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("data URL に画像データがありません")
	}
	return raw, nil
}
