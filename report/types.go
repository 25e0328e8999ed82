// Package report は現地調査の帳票レイアウトエンジン。
// 表紙・調査情報・写真グリッドの各セクションについて、どのグリフ・画像・
// 改ページがどこに落ちるかを決定する。描画そのものは document.Document に
// 委譲し、画像のラスタライズやバイト列への直列化には関与しない。
package report

// Project は調査が属するプロジェクトの最小情報。
type Project struct {
	Name string `json:"name"`
}

// SurveyDetail は帳票の入力となる調査情報。エンジンからは読み取り専用。
// SurveyDate は ISO 形式（YYYY-MM-DD）の文字列。Memo は空文字列なら未記入。
type SurveyDetail struct {
	Name       string  `json:"name"`
	SurveyDate string  `json:"surveyDate"`
	Memo       string  `json:"memo"`
	Project    Project `json:"project"`
}

// SurveyImage は撮影画像のメタ情報。レイアウト計算では Width/Height のみ使う。
type SurveyImage struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	FileName string  `json:"fileName"`
}

// AnnotatedImage は注釈描画済みの画像 1 枚とその所見コメント。
// DataURL は外部のレンダラーが合成済みの data URL 文字列。
// Comment は空または空白のみの場合「コメントなし」として扱う。
type AnnotatedImage struct {
	ImageInfo SurveyImage `json:"imageInfo"`
	DataURL   string      `json:"dataUrl"`
	Comment   string      `json:"comment"`
}

// GenerateOptions はセクションの出力有無のみを制御する。ジオメトリには影響しない。
type GenerateOptions struct {
	IncludeCoverPage   bool `json:"includeCoverPage"`
	IncludeInfoSection bool `json:"includeInfoSection"`
	IncludeImages      bool `json:"includeImages"`
	IncludePageNumbers bool `json:"includePageNumbers"`
}

// DefaultGenerateOptions は全セクションを出力する既定値を返す。
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		IncludeCoverPage:   true,
		IncludeInfoSection: true,
		IncludeImages:      true,
		IncludePageNumbers: true,
	}
}
