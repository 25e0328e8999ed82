package report

import "math"

// ImageDimensions は contain-fit 後の画像寸法（mm）。
type ImageDimensions struct {
	Width  float64
	Height float64
}

// CalculateImageDimensions は縦横比を保ったまま画像を
// maxWidth × maxHeight の枠に収める寸法を計算する。
// 結果はどちらの辺も枠を超えない。
func CalculateImageDimensions(imgWidth, imgHeight, maxWidth, maxHeight float64) ImageDimensions {
	if imgWidth <= 0 || imgHeight <= 0 {
		return ImageDimensions{}
	}
	scale := math.Min(maxWidth/imgWidth, maxHeight/imgHeight)
	return ImageDimensions{
		Width:  imgWidth * scale,
		Height: imgHeight * scale,
	}
}
