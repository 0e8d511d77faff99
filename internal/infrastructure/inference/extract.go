package inference

import (
	"encoding/json"
	"strings"

	"leafdoctor-bot/internal/domain/entity"
)

// generateResponse ожидаемая форма ответа generateContent.
// Text хранится как RawMessage, чтобы не падать на нестроковых значениях.
type generateResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text json.RawMessage `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ExtractText достаёт candidates[0].content.parts[0].text.
// Второе значение false, если на пути чего-то нет или текст пустой.
func ExtractText(body []byte) (string, bool) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false
	}
	if len(resp.Candidates) == 0 {
		return "", false
	}

	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", false
	}

	raw := content.Parts[0].Text
	if len(raw) == 0 {
		return "", false
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", false
	}
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}

// TextOrSentinel возвращает текст ответа или entity.NoResult
func TextOrSentinel(body []byte) string {
	if text, ok := ExtractText(body); ok {
		return text
	}
	return entity.NoResult
}
