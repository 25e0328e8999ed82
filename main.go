package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/inakanou/ArchiTrack-sub015/document"
	canvasdocument "github.com/inakanou/ArchiTrack-sub015/document/canvas"
	fpdfdocument "github.com/inakanou/ArchiTrack-sub015/document/fpdf"
	"github.com/inakanou/ArchiTrack-sub015/fonts"
	"github.com/inakanou/ArchiTrack-sub015/manifest"
	"github.com/inakanou/ArchiTrack-sub015/report"
)

func main() {
	input := flag.String("in", "manifest.json", "帳票マニフェスト（JSON）のパス")
	output := flag.String("out", "output/report.pdf", "PDF 出力パス")
	layoutVersion := flag.String("layout", "v2", "レイアウト（v1: 1 カラム / v2: 写真グリッド）")
	backend := flag.String("backend", "fpdf", "PDF バックエンド（fpdf / canvas）")
	fontPath := flag.String("font", "", "埋め込む TTF フォントのパス（日本語フォント推奨）")
	fontFamily := flag.String("font-family", report.DefaultFontFamily, "埋め込むフォントのファミリー名")
	flag.Parse()

	if err := run(*input, *output, *layoutVersion, *backend, *fontPath, *fontFamily); err != nil {
		log.Fatalf("帳票の生成に失敗しました: %v", err)
	}
	fmt.Printf("帳票を生成しました：%s\n", *output)
}

// pdfDocument は帳票を描けてバイト列に直列化もできるハンドル。
type pdfDocument interface {
	document.Document
	Bytes() ([]byte, error)
}

// run はマニフェストの読み込み、レイアウト、直列化を串刺しにする。
func run(inputPath, outputPath, layoutVersion, backend, fontPath, fontFamily string) error {
	m, err := manifest.Load(inputPath)
	if err != nil {
		return err
	}
	images, err := m.Annotated(filepath.Dir(inputPath))
	if err != nil {
		return err
	}

	registry := fonts.NewRegistry()
	if fontPath != "" {
		registry.Register(fontFamily, fonts.Resource{Path: fontPath})
	}

	var doc pdfDocument
	switch backend {
	case "fpdf":
		doc = fpdfdocument.New(fpdfdocument.Options{Registry: registry, FontFamily: fontFamily})
	case "canvas":
		doc = canvasdocument.New(canvasdocument.Options{Registry: registry, FontFamily: fontFamily})
	default:
		return fmt.Errorf("未知のバックエンドです: %s", backend)
	}

	survey := m.ResolvedSurvey()
	opts := m.ResolvedOptions()
	switch layoutVersion {
	case "v1":
		err = report.GenerateReport(doc, &survey, images, opts)
	case "v2":
		err = report.GenerateSurveyReport(doc, &survey, images, opts)
	default:
		return fmt.Errorf("未知のレイアウトです: %s", layoutVersion)
	}
	if err != nil {
		return err
	}

	pdfBytes, err := doc.Bytes()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("PDF ファイルの書き込みに失敗しました: %w", err)
	}
	return nil
}
