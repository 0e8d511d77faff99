//go:build !gocv
// +build !gocv

package capture

import (
	"context"
	"errors"

	"leafdoctor-bot/internal/domain/entity"
)

// WebcamSource заглушка без OpenCV
type WebcamSource struct {
	DeviceID     int
	WarmupFrames int
}

// NewWebcamSource создаёт источник-заглушку (без OpenCV).
func NewWebcamSource(deviceID int) *WebcamSource {
	return &WebcamSource{DeviceID: deviceID, WarmupFrames: 5}
}

// Frame возвращает ошибку, если сборка без тега gocv.
func (s *WebcamSource) Frame(ctx context.Context) ([]byte, entity.ImageEncoding, error) {
	_ = ctx
	return nil, "", errors.New("gocv build tag is not enabled")
}
