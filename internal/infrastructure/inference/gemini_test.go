package inference

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"leafdoctor-bot/internal/domain/entity"
	apperrors "leafdoctor-bot/internal/errors"
)

func newTestClient(srv *httptest.Server) *GeminiClient {
	c := NewGeminiClient("test-key")
	c.BaseURL = srv.URL
	c.HTTPClient = srv.Client()
	c.Logger = log.New(io.Discard, "", 0)
	return c
}

func testRequest() entity.DiagnosisRequest {
	img := entity.NewCapturedImage([]byte{0xff, 0xd8, 0xff}, entity.EncodingJPEG, "", nil)
	return entity.DiagnosisRequest{Image: img, Language: entity.LanguageSinhala}
}

func TestGeminiClient_RequestShape(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/models/gemini-3-flash-preview:generateContent", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"Powdery mildew"}]}}]}`)
	}))
	defer srv.Close()

	text, err := newTestClient(srv).Identify(context.Background(), testRequest())
	require.NoError(t, err)
	require.Equal(t, "Powdery mildew", text)

	require.Len(t, got.Contents, 1)
	parts := got.Contents[0].Parts
	require.Len(t, parts, 2)
	require.Equal(t, "Identify the plant disease and give summary and treatment in si", parts[0].Text)
	require.Nil(t, parts[0].InlineData)
	require.NotNil(t, parts[1].InlineData)
	require.Equal(t, "image/jpeg", parts[1].InlineData.MimeType)
	require.Equal(t, "/9j/", parts[1].InlineData.Data)
}

func TestGeminiClient_EmptyCandidatesGivesSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	text, err := newTestClient(srv).Identify(context.Background(), testRequest())
	require.NoError(t, err)
	require.Equal(t, entity.NoResult, text)
}

func TestGeminiClient_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"quota"}}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Identify(context.Background(), testRequest())
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrServiceError))
}

func TestGeminiClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(srv)
	srv.Close()

	_, err := client.Identify(context.Background(), testRequest())
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrNetworkFailure))
}

func TestGeminiClient_ReleasedImage(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	req := testRequest()
	require.NoError(t, req.Image.Release())

	_, err := newTestClient(srv).Identify(context.Background(), req)
	require.True(t, apperrors.Is(err, apperrors.ErrInvalidRequest))
	require.Zero(t, hits.Load())

	_, err = newTestClient(srv).Identify(context.Background(), entity.DiagnosisRequest{Language: entity.LanguageEnglish})
	require.True(t, apperrors.Is(err, apperrors.ErrInvalidRequest))
	require.Zero(t, hits.Load())
}
