package entity

const (
	// NoResult подставляется, когда в ответе сервиса нет текста
	NoResult = "No result"

	// Заглушки: метка болезни и лечение пока не извлекаются из ответа,
	// весь текст сервиса находится в Summary.
	PlaceholderDiseaseLabel = "Detected Disease"
	PlaceholderTreatment    = "See details above"
)

// DiagnosisRequest одиночный запрос к сервису распознавания
type DiagnosisRequest struct {
	Image    *CapturedImage
	Language LanguageCode
}

// DiagnosisResult нормализованный результат распознавания
type DiagnosisResult struct {
	DiseaseLabel string
	Summary      string // всегда непустой
	Treatment    string
	Language     LanguageCode
}
