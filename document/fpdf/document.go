// Package fpdfdocument は codeberg.org/go-pdf/fpdf を使った
// document.Document の実装。絶対座標の描画呼び出しをほぼ 1:1 で対応付ける。
package fpdfdocument

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"github.com/inakanou/ArchiTrack-sub015/document"
	"github.com/inakanou/ArchiTrack-sub015/fonts"
)

// 既定フォントサイズ（pt）。エンジンが SetFontSize するまでの初期値。
const defaultFontSize = 10.5

// Options はドキュメント生成時の設定。
type Options struct {
	// Registry に登録済みの TTF を UTF-8 フォントとして取り込む。nil 可。
	Registry *fonts.Registry
	// FontFamily は既定ファミリーのフォールバックチェーン（例 "NotoSansJP, Inter"）。
	// 1 つも解決できない場合は内蔵の Helvetica に落ちる。
	FontFamily string
}

// Document は fpdf ベースのドキュメントハンドル。
// 生成直後から空白の 1 ページ目を持つ。
type Document struct {
	pdf      *fpdf.Fpdf
	size     float64
	families map[string]bool
	fallback string
	imageSeq int
}

var _ document.Document = (*Document)(nil)

// New はページ 1 枚を持つ A4 縦のドキュメントを作る。
// Registry のフォントはすべて UTF-8 フォントとして登録し、チェーンで
// 最初に解決できたものを既定ファミリーにする。
func New(opts Options) *Document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	d := &Document{
		pdf:      pdf,
		size:     defaultFontSize,
		families: map[string]bool{},
		fallback: "helvetica",
	}

	if opts.Registry != nil {
		for _, name := range opts.Registry.Names() {
			data, err := opts.Registry.Load(name)
			if err != nil {
				continue
			}
			pdf.AddUTF8FontFromBytes(name, "", data)
			if pdf.Err() {
				pdf.ClearError()
				continue
			}
			d.families[name] = true
		}
		for _, name := range fonts.SplitChain(opts.FontFamily) {
			if d.families[name] {
				d.fallback = name
				break
			}
		}
	}

	pdf.AddPage()
	pdf.SetFont(d.fallback, "", d.size)
	return d
}

// SetFont はファミリーを切り替える。未登録の場合は既定ファミリーに解決する。
func (d *Document) SetFont(family string) {
	if !d.families[family] {
		family = d.fallback
	}
	d.pdf.SetFont(family, "", d.size)
}

func (d *Document) SetFontSize(size float64) {
	d.size = size
	d.pdf.SetFontSize(size)
}

func (d *Document) SetTextColor(r, g, b int) { d.pdf.SetTextColor(r, g, b) }
func (d *Document) SetDrawColor(r, g, b int) { d.pdf.SetDrawColor(r, g, b) }
func (d *Document) SetFillColor(r, g, b int) { d.pdf.SetFillColor(r, g, b) }
func (d *Document) SetLineWidth(w float64)   { d.pdf.SetLineWidth(w) }

func (d *Document) Text(content string, x, y float64) { d.pdf.Text(x, y, content) }

func (d *Document) Line(x1, y1, x2, y2 float64) { d.pdf.Line(x1, y1, x2, y2) }

func (d *Document) Rect(x, y, w, h float64) { d.pdf.Rect(x, y, w, h, "D") }

// AddImage は data URL をデコードして指定領域に配置する。
// fpdf のエラーはドキュメント全体に残留するため、ここで回収して
// 呼び出し単位のエラーに変換する。壊れた画像でハンドルが使用不能にならない。
func (d *Document) AddImage(dataURL, format string, x, y, w, h float64) error {
	raw, err := decodeDataURL(dataURL)
	if err != nil {
		return err
	}

	d.imageSeq++
	name := fmt.Sprintf("report-image-%d", d.imageSeq)
	imgOpts := fpdf.ImageOptions{ImageType: format}

	info := d.pdf.RegisterImageOptionsReader(name, imgOpts, bytes.NewReader(raw))
	if err := d.takeError(); err != nil {
		return fmt.Errorf("画像の登録に失敗しました: %w", err)
	}
	if info == nil {
		return fmt.Errorf("画像の登録に失敗しました")
	}

	d.pdf.ImageOptions(name, x, y, w, h, false, imgOpts, 0, "")
	if err := d.takeError(); err != nil {
		return fmt.Errorf("画像の配置に失敗しました: %w", err)
	}
	return nil
}

func (d *Document) AddPage() { d.pdf.AddPage() }

func (d *Document) PageCount() int { return d.pdf.PageCount() }

func (d *Document) SetPage(n int) { d.pdf.SetPage(n) }

func (d *Document) SplitTextToSize(text string, maxWidth float64) []string {
	return d.pdf.SplitText(text, maxWidth)
}

func (d *Document) TextWidth(text string) float64 { return d.pdf.GetStringWidth(text) }

func (d *Document) PageWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	return w
}

func (d *Document) PageHeight() float64 {
	_, h := d.pdf.GetPageSize()
	return h
}

// Output は PDF を w に書き出す。以後このハンドルには描画できない。
func (d *Document) Output(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
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

// takeError は fpdf に残留したエラーを取り出してクリアする。
func (d *Document) takeError() error {
	if !d.pdf.Err() {
		return nil
	}
	err := d.pdf.Error()
	d.pdf.ClearError()
	return err
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
