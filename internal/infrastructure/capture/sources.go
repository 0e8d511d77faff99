package capture

import (
	"context"
	"fmt"
	"os"

	"leafdoctor-bot/internal/domain/entity"
	"leafdoctor-bot/internal/domain/port"
)

// FileSource отдаёт кадр из файла на диске
type FileSource struct {
	Path string
}

// Frame читает файл и определяет его формат
func (s FileSource) Frame(ctx context.Context) ([]byte, entity.ImageEncoding, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}

	encoding, err := DetectEncoding(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", s.Path, err)
	}
	return data, encoding, nil
}

// FuncSource адаптер функции к port.FrameSource
type FuncSource func(ctx context.Context) ([]byte, entity.ImageEncoding, error)

func (f FuncSource) Frame(ctx context.Context) ([]byte, entity.ImageEncoding, error) {
	return f(ctx)
}

var (
	_ port.FrameSource = FileSource{}
	_ port.FrameSource = FuncSource(nil)
)
