// Package manifest は帳票生成 CLI への入力（JSON マニフェスト）を読み込み、
// レイアウトエンジンへ渡す形に変換する。画像ファイルの data URL 化は
// 本来は注釈レンダラーの仕事で、ここではその代替となる最小実装を持つ。
package manifest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/inakanou/ArchiTrack-sub015/report"
)

// Image はマニフェスト中の画像 1 件。File か DataURL のどちらかを指定する。
// Width/Height（px）が省略された場合はファイルから読み取る。
type Image struct {
	File     string  `json:"file,omitempty"`
	DataURL  string  `json:"dataUrl,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	FileName string  `json:"fileName,omitempty"`
	Comment  string  `json:"comment,omitempty"`
}

// Manifest は帳票 1 冊分の入力。
type Manifest struct {
	Survey  report.SurveyDetail     `json:"survey"`
	Images  []Image                 `json:"images"`
	Options *report.GenerateOptions `json:"options,omitempty"`
}

// Load は path の JSON マニフェストを読み込む。
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("マニフェスト %s を読み込めません: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("マニフェスト %s の解析に失敗しました: %w", path, err)
	}
	if m.Survey.Name == "" {
		return nil, fmt.Errorf("マニフェストに調査名（survey.name）がありません")
	}
	return &m, nil
}

// ResolvedSurvey は備考中の ${...} を展開した調査情報を返す。
func (m *Manifest) ResolvedSurvey() report.SurveyDetail {
	s := m.Survey
	s.Memo = interpolate(s.Memo, m.bindingData())
	return s
}

// ResolvedOptions は options が省略されたときに全セクション有効の既定値を返す。
func (m *Manifest) ResolvedOptions() report.GenerateOptions {
	if m.Options != nil {
		return *m.Options
	}
	return report.DefaultGenerateOptions()
}

// Annotated はマニフェストの画像をレイアウトエンジンの入力に変換する。
// ファイル指定の画像は baseDir からの相対パスで読み、data URL に包む。
// コメント中の ${...} は調査情報で展開する。
func (m *Manifest) Annotated(baseDir string) ([]report.AnnotatedImage, error) {
	data := m.bindingData()
	annotated := make([]report.AnnotatedImage, 0, len(m.Images))
	for i := range m.Images {
		img := &m.Images[i]

		dataURL := img.DataURL
		width, height := img.Width, img.Height
		fileName := img.FileName

		if dataURL == "" {
			if img.File == "" {
				return nil, fmt.Errorf("画像 %d 件目に file も dataUrl も指定されていません", i+1)
			}
			path := img.File
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("画像 %s を読み込めません: %w", img.File, err)
			}
			dataURL = fmt.Sprintf("data:%s;base64,%s", mimeTypeForFile(path), base64.StdEncoding.EncodeToString(raw))
			if fileName == "" {
				fileName = filepath.Base(path)
			}
			if width <= 0 || height <= 0 {
				if cfg, _, err := image.DecodeConfig(bytes.NewReader(raw)); err == nil {
					width = float64(cfg.Width)
					height = float64(cfg.Height)
				}
			}
		}

		annotated = append(annotated, report.AnnotatedImage{
			ImageInfo: report.SurveyImage{
				Width:    width,
				Height:   height,
				FileName: fileName,
			},
			DataURL: dataURL,
			Comment: interpolate(img.Comment, data),
		})
	}
	return annotated, nil
}

// bindingData は ${survey.*} の解決に使うマップを作る。
func (m *Manifest) bindingData() map[string]any {
	raw, err := json.Marshal(m.Survey)
	if err != nil {
		return nil
	}
	var surveyMap map[string]any
	if err := json.Unmarshal(raw, &surveyMap); err != nil {
		return nil
	}
	return map[string]any{"survey": surveyMap}
}

func mimeTypeForFile(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}
