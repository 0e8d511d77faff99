package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"leafdoctor-bot/internal/domain/entity"
	"leafdoctor-bot/internal/infrastructure/inference"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir()) // без .env
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("GEMINI_BASE_URL", "")
	t.Setenv("LEAFDOCTOR_DATA_DIR", "/tmp/leafdoctor-test")
	t.Setenv("CAMERA_DEVICE", "")
	t.Setenv("DEFAULT_LANGUAGE", "")
	t.Setenv("QUALITY_GATE", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.False(t, cfg.QualityGate)
	require.Equal(t, inference.DefaultModel, cfg.GeminiModel)
	require.Equal(t, inference.DefaultBaseURL, cfg.GeminiBaseURL)
	require.Equal(t, "/tmp/leafdoctor-test", cfg.DataDir)
	require.Equal(t, 0, cfg.CameraDevice)
	require.Equal(t, entity.LanguageEnglish, cfg.DefaultLanguage)

	require.EqualError(t, cfg.ValidateBot(), "TELEGRAM_TOKEN, GEMINI_API_KEY is required")
	require.EqualError(t, cfg.ValidateDiagnose(), "GEMINI_API_KEY is required")
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TELEGRAM_TOKEN", "tg")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("LEAFDOCTOR_DATA_DIR", t.TempDir())
	t.Setenv("CAMERA_DEVICE", "2")
	t.Setenv("DEFAULT_LANGUAGE", "FR")
	t.Setenv("QUALITY_GATE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.QualityGate)
	require.Equal(t, 2, cfg.CameraDevice)
	require.Equal(t, entity.LanguageFrench, cfg.DefaultLanguage)
	require.NoError(t, cfg.ValidateBot())
}

func TestLoad_InvalidValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LEAFDOCTOR_DATA_DIR", t.TempDir())
	t.Setenv("DEFAULT_LANGUAGE", "")
	t.Setenv("QUALITY_GATE", "")

	t.Setenv("CAMERA_DEVICE", "front")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("CAMERA_DEVICE", "0")
	t.Setenv("DEFAULT_LANGUAGE", "de")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("DEFAULT_LANGUAGE", "")
	t.Setenv("QUALITY_GATE", "sometimes")
	_, err = Load()
	require.ErrorContains(t, err, "QUALITY_GATE")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
