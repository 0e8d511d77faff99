package entity

import "strings"

// LanguageCode язык, на котором сервис должен ответить
type LanguageCode string

const (
	LanguageEnglish LanguageCode = "en"
	LanguageSinhala LanguageCode = "si"
	LanguageTamil   LanguageCode = "ta"
	LanguageSpanish LanguageCode = "es"
	LanguageFrench  LanguageCode = "fr"
)

// Languages фиксированный список языков в порядке показа
var Languages = []LanguageCode{
	LanguageEnglish,
	LanguageSinhala,
	LanguageTamil,
	LanguageSpanish,
	LanguageFrench,
}

var languageNames = map[LanguageCode]string{
	LanguageEnglish: "English",
	LanguageSinhala: "Sinhala",
	LanguageTamil:   "Tamil",
	LanguageSpanish: "Spanish",
	LanguageFrench:  "French",
}

// ParseLanguage разбирает код языка без учёта регистра
func ParseLanguage(s string) (LanguageCode, bool) {
	code := LanguageCode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := languageNames[code]; !ok {
		return "", false
	}
	return code, true
}

// Valid проверяет, что код входит в список поддерживаемых
func (l LanguageCode) Valid() bool {
	_, ok := languageNames[l]
	return ok
}

// Name возвращает название языка для меню
func (l LanguageCode) Name() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return string(l)
}
