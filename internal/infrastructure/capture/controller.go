package capture

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"leafdoctor-bot/internal/domain/entity"
	"leafdoctor-bot/internal/domain/port"
	apperrors "leafdoctor-bot/internal/errors"
)

// Controller делает снимки из источника кадров.
// Каждый снимок копируется во временный файл, который удаляется при Release.
type Controller struct {
	source     port.FrameSource
	permission entity.CameraPermission
	tempDir    string
	inspector  port.FrameInspector
}

// NewController создаёт контроллер съёмки. Пустой tempDir означает os.TempDir().
func NewController(source port.FrameSource, permission entity.CameraPermission, tempDir string) *Controller {
	return &Controller{
		source:     source,
		permission: permission,
		tempDir:    tempDir,
	}
}

// WithInspector включает проверку качества кадра. nil отключает проверку.
func (c *Controller) WithInspector(inspector port.FrameInspector) *Controller {
	c.inspector = inspector
	return c
}

// Capture делает один снимок
func (c *Controller) Capture(ctx context.Context) (*entity.CapturedImage, error) {
	if c.permission != entity.PermissionGranted {
		return nil, apperrors.NewPermissionDenied()
	}
	if c.source == nil {
		return nil, apperrors.NewCaptureFailure(errors.New("no frame source"))
	}

	data, encoding, err := c.source.Frame(ctx)
	if err != nil {
		return nil, apperrors.NewCaptureFailure(err)
	}
	if len(data) == 0 {
		return nil, apperrors.NewCaptureFailure(errors.New("empty frame"))
	}
	if c.inspector != nil {
		if err := c.inspector.Inspect(ctx, data); err != nil {
			return nil, apperrors.NewCaptureFailure(err)
		}
	}

	handle, err := c.writeTemp(data, encoding)
	if err != nil {
		return nil, apperrors.NewCaptureFailure(err)
	}

	return entity.NewCapturedImage(data, encoding, handle, func() error {
		if err := os.Remove(handle); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", handle, err)
		}
		return nil
	}), nil
}

func (c *Controller) writeTemp(data []byte, encoding entity.ImageEncoding) (string, error) {
	f, err := os.CreateTemp(c.tempDir, "leaf-*."+string(encoding))
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close temp image: %w", err)
	}
	return f.Name(), nil
}

// DetectEncoding определяет формат по сигнатуре данных
func DetectEncoding(data []byte) (entity.ImageEncoding, error) {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return entity.EncodingJPEG, nil
	case "image/png":
		return entity.EncodingPNG, nil
	default:
		return "", errors.New("unsupported image format")
	}
}

// Проверка реализации интерфейса
var _ port.Camera = (*Controller)(nil)
