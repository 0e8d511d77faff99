package entity

import (
	"strings"
	"time"
)

// Severity необязательная оценка тяжести поражения
type Severity string

const (
	SeverityNone   Severity = ""
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ParseSeverity разбирает значение без учёта регистра; неизвестное значение даёт SeverityNone
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityLow:
		return SeverityLow
	case SeverityMedium:
		return SeverityMedium
	case SeverityHigh:
		return SeverityHigh
	default:
		return SeverityNone
	}
}

const (
	unknownDisease     = "Unknown Disease"
	noSummaryAvailable = "No summary available"
)

// HistoryRecord сохранённый результат диагностики.
// Создаётся один раз при сохранении и больше не меняется.
type HistoryRecord struct {
	ID           string
	OwnerID      string
	DiseaseLabel string
	Summary      string
	Treatment    string
	Language     LanguageCode
	CreatedAt    time.Time // нулевое значение: метки времени нет
	Severity     Severity
}

// NewHistoryRecord собирает запись из результата для владельца ownerID.
// ID и CreatedAt назначает хранилище.
func NewHistoryRecord(ownerID string, result DiagnosisResult) *HistoryRecord {
	return &HistoryRecord{
		OwnerID:      ownerID,
		DiseaseLabel: result.DiseaseLabel,
		Summary:      result.Summary,
		Treatment:    result.Treatment,
		Language:     result.Language,
	}
}

// DisplayLabel возвращает метку болезни для показа
func (r *HistoryRecord) DisplayLabel() string {
	if r.DiseaseLabel == "" {
		return unknownDisease
	}
	return r.DiseaseLabel
}

// DisplaySummary возвращает описание для показа
func (r *HistoryRecord) DisplaySummary() string {
	if r.Summary == "" {
		return noSummaryAvailable
	}
	return r.Summary
}

func (r *HistoryRecord) SearchFields() []string {
	return []string{r.DiseaseLabel, r.Summary, r.Treatment}
}

func (r *HistoryRecord) CategoryValue() string {
	return string(r.Severity)
}

func (r *HistoryRecord) Timestamp() time.Time {
	return r.CreatedAt
}
