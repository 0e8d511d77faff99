package app

import (
	"strings"

	"leafdoctor-bot/internal/domain/entity"
)

// AssembleDiagnosis превращает текст сервиса в нормализованный результат.
// Метка болезни и лечение пока заглушки: весь ответ уходит в Summary.
func AssembleDiagnosis(raw string, lang entity.LanguageCode) entity.DiagnosisResult {
	summary := raw
	if strings.TrimSpace(summary) == "" {
		summary = entity.NoResult
	}

	return entity.DiagnosisResult{
		DiseaseLabel: entity.PlaceholderDiseaseLabel,
		Summary:      summary,
		Treatment:    entity.PlaceholderTreatment,
		Language:     lang,
	}
}
