package port

import (
	"context"

	"leafdoctor-bot/internal/domain/entity"
)

// FrameSource источник одного кадра (камера, файл, фото из чата)
type FrameSource interface {
	// Frame возвращает закодированный кадр и его формат
	Frame(ctx context.Context) ([]byte, entity.ImageEncoding, error)
}

// Camera контроллер съёмки
type Camera interface {
	// Capture делает один снимок. Вызывающий обязан освободить его через Release.
	Capture(ctx context.Context) (*entity.CapturedImage, error)
}

// FrameInspector проверяет качество кадра до распознавания
type FrameInspector interface {
	// Inspect возвращает ошибку, если по кадру нельзя поставить диагноз
	Inspect(ctx context.Context, data []byte) error
}
