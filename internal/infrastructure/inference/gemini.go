package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"leafdoctor-bot/internal/domain/entity"
	"leafdoctor-bot/internal/domain/port"
	apperrors "leafdoctor-bot/internal/errors"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-3-flash-preview"

	// максимум тела ошибки, который попадает в детали
	maxErrorBody = 2048
)

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

// GeminiClient клиент generateContent. Один вызов на снимок, без повторов и кэша.
type GeminiClient struct {
	BaseURL    string
	Model      string
	APIKey     string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// NewGeminiClient создаёт клиент с адресом и моделью по умолчанию
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		BaseURL:    DefaultBaseURL,
		Model:      DefaultModel,
		APIKey:     apiKey,
		HTTPClient: &http.Client{},
		Logger:     log.Default(),
	}
}

// Instruction формирует текст инструкции для языка lang
func Instruction(lang entity.LanguageCode) string {
	return fmt.Sprintf("Identify the plant disease and give summary and treatment in %s", lang)
}

// Identify отправляет снимок и возвращает текст ответа или entity.NoResult.
// Ошибка транспорта даёт NETWORK_FAILURE, неуспешный статус даёт SERVICE_ERROR.
func (c *GeminiClient) Identify(ctx context.Context, req entity.DiagnosisRequest) (string, error) {
	if req.Image == nil {
		return "", apperrors.NewInvalidRequest("diagnosis request has no image")
	}
	// Данные берутся одним снимком: Release между проверкой и кодированием невозможен
	encoded, ok := req.Image.Base64()
	if !ok {
		return "", apperrors.NewInvalidRequest("diagnosis request has no image")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: Instruction(req.Language)},
				{InlineData: &inlineData{
					MimeType: req.Image.Encoding.MIMEType(),
					Data:     encoded,
				}},
			},
		}},
	})
	if err != nil {
		return "", apperrors.NewInternal(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", apperrors.NewInternal(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("x-goog-api-key", c.APIKey)
	}

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return "", apperrors.NewNetworkFailure(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewNetworkFailure(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.NewServiceError(resp.StatusCode, truncate(string(data), maxErrorBody))
	}

	text, ok := ExtractText(data)
	if !ok {
		c.logf("inference: response has no text, using sentinel (%d bytes)", len(data))
		return entity.NoResult, nil
	}
	return text, nil
}

func (c *GeminiClient) endpoint() string {
	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	model := c.Model
	if model == "" {
		model = DefaultModel
	}
	return fmt.Sprintf("%s/models/%s:generateContent", base, url.PathEscape(model))
}

func (c *GeminiClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *GeminiClient) logf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Проверка реализации интерфейса
var _ port.DiseaseIdentifier = (*GeminiClient)(nil)
