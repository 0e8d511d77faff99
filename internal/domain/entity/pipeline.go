package entity

// PipelineState состояние конвейера диагностики
type PipelineState string

const (
	StateIdle        PipelineState = "idle"        // Снимка нет
	StateCapturing   PipelineState = "capturing"   // Идёт съёмка
	StateCaptured    PipelineState = "captured"    // Снимок есть, результата нет
	StateIdentifying PipelineState = "identifying" // Запрос к сервису в работе
	StateResulted    PipelineState = "resulted"    // Результат готов, не сохранён
	StateSaving      PipelineState = "saving"      // Идёт сохранение
)

// AllowsLanguageChange сообщает, можно ли менять язык в этом состоянии
func (s PipelineState) AllowsLanguageChange() bool {
	return s == StateCaptured || s == StateResulted
}
