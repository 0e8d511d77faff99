package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"leafdoctor-bot/internal/domain/entity"
	"leafdoctor-bot/internal/infrastructure/inference"
)

type Config struct {
	TelegramToken   string
	GeminiAPIKey    string
	GeminiModel     string
	GeminiBaseURL   string
	DataDir         string
	CameraDevice    int
	User            string // личность для CLI-команд
	DefaultLanguage entity.LanguageCode
	QualityGate     bool // отбраковка размытых и тёмных кадров до распознавания
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   envOr("GEMINI_MODEL", inference.DefaultModel),
		GeminiBaseURL: envOr("GEMINI_BASE_URL", inference.DefaultBaseURL),
		DataDir:       os.Getenv("LEAFDOCTOR_DATA_DIR"),
		User:          os.Getenv("LEAFDOCTOR_USER"),
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".leafdoctor")
	}

	device := envOr("CAMERA_DEVICE", "0")
	n, err := strconv.Atoi(device)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("CAMERA_DEVICE must be a non-negative integer, got %q", device)
	}
	cfg.CameraDevice = n

	lang, ok := entity.ParseLanguage(envOr("DEFAULT_LANGUAGE", string(entity.LanguageEnglish)))
	if !ok {
		return nil, fmt.Errorf("DEFAULT_LANGUAGE must be one of en, si, ta, es, fr")
	}
	cfg.DefaultLanguage = lang

	gate := envOr("QUALITY_GATE", "false")
	cfg.QualityGate, err = strconv.ParseBool(gate)
	if err != nil {
		return nil, fmt.Errorf("QUALITY_GATE must be a boolean, got %q", gate)
	}

	return cfg, nil
}

// ValidateBot проверяет настройки для режима бота
func (c *Config) ValidateBot() error {
	var missing []string
	if c.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	return missingError(missing)
}

// ValidateDiagnose проверяет настройки для разовой диагностики из CLI
func (c *Config) ValidateDiagnose() error {
	var missing []string
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	return missingError(missing)
}

func missingError(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return errors.New(strings.Join(missing, ", ") + " is required")
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
