//go:build gocv
// +build gocv

package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"leafdoctor-bot/internal/domain/entity"
)

// WebcamSource снимает кадр с камеры через OpenCV
type WebcamSource struct {
	DeviceID int
	// WarmupFrames кадров пропускается, пока камера подстраивает экспозицию
	WarmupFrames int
}

// NewWebcamSource создаёт источник для устройства deviceID
func NewWebcamSource(deviceID int) *WebcamSource {
	return &WebcamSource{DeviceID: deviceID, WarmupFrames: 5}
}

// Frame открывает устройство, читает кадр и кодирует его в JPEG
func (s *WebcamSource) Frame(ctx context.Context) ([]byte, entity.ImageEncoding, error) {
	cam, err := gocv.OpenVideoCapture(s.DeviceID)
	if err != nil {
		return nil, "", fmt.Errorf("open camera %d: %w", s.DeviceID, err)
	}
	defer cam.Close()

	if !cam.IsOpened() {
		return nil, "", fmt.Errorf("camera %d is not opened", s.DeviceID)
	}

	mat := gocv.NewMat()
	defer mat.Close()

	for i := 0; i <= s.WarmupFrames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		if ok := cam.Read(&mat); !ok {
			return nil, "", errors.New("camera returned no frame")
		}
	}
	if mat.Empty() {
		return nil, "", errors.New("empty frame")
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return nil, "", fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	return bytes.Clone(buf.GetBytes()), entity.EncodingJPEG, nil
}
