//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
)

// QualityGate без OpenCV проверяет только размер кадра.
type QualityGate struct {
	MinImageSide int
}

// NewQualityGate создаёт проверку-заглушку (без OpenCV).
func NewQualityGate() *QualityGate {
	return &QualityGate{MinImageSide: DefaultMinImageSide}
}

// Inspect читает заголовок изображения и проверяет его размеры.
func (g *QualityGate) Inspect(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return &QualityError{Reason: ReasonUndecodable}
	}
	if cfg.Width < g.MinImageSide || cfg.Height < g.MinImageSide {
		return &QualityError{Reason: ReasonTooSmall, Width: cfg.Width, Height: cfg.Height}
	}
	return nil
}
