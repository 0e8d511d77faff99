package port

import (
	"context"

	"leafdoctor-bot/internal/domain/entity"
)

// DiseaseIdentifier клиент сервиса распознавания болезней
type DiseaseIdentifier interface {
	// Identify отправляет снимок и инструкцию, возвращает текст ответа
	Identify(ctx context.Context, req entity.DiagnosisRequest) (string, error)
}
