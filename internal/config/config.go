package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Template   TemplateConfig
	Extraction ExtractionConfig
	LogLevel   string
}

type ServerConfig struct {
	Port        string
	Mode        string
	MaxUploadMB int
}

type StorageConfig struct {
	UploadDir string
	OutputDir string
}

// TemplateConfig points at the model spreadsheet and the sheet that receives rows.
type TemplateConfig struct {
	Path  string
	Sheet string
}

// ExtractionConfig tunes the geometric table detector.
type ExtractionConfig struct {
	MinRows            int
	MinColumns         int
	AlignmentTolerance float64
	MinConfidence      float64
}

// DefaultExtraction returns the detection settings used when nothing is configured.
func DefaultExtraction() ExtractionConfig {
	return ExtractionConfig{
		MinRows:            2,
		MinColumns:         2,
		AlignmentTolerance: 3.0,
		MinConfidence:      0.5,
	}
}

// Load reads configuration from environment variables, after loading a
// .env file from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("erro ao carregar .env: %w", err)
	}

	defaults := DefaultExtraction()
	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8083"),
			Mode:        getEnv("GIN_MODE", "release"),
			MaxUploadMB: getEnvAsInt("MAX_UPLOAD_MB", 32),
		},
		Storage: StorageConfig{
			UploadDir: getEnv("UPLOAD_DIR", "uploads"),
			OutputDir: getEnv("OUTPUT_DIR", "uploads"),
		},
		Template: TemplateConfig{
			Path:  getEnv("TEMPLATE_XLSX", "planilha_teste.xlsx"),
			Sheet: getEnv("ABA_DESTINO", "Omie_Contas_Pagar"),
		},
		Extraction: ExtractionConfig{
			MinRows:            getEnvAsInt("TABLE_MIN_ROWS", defaults.MinRows),
			MinColumns:         getEnvAsInt("TABLE_MIN_COLUMNS", defaults.MinColumns),
			AlignmentTolerance: getEnvAsFloat("TABLE_ALIGNMENT_TOLERANCE", defaults.AlignmentTolerance),
			MinConfidence:      getEnvAsFloat("TABLE_MIN_CONFIDENCE", defaults.MinConfidence),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if cfg.Template.Sheet == "" {
		return nil, errors.New("ABA_DESTINO não pode ser vazia")
	}
	if cfg.Extraction.MinRows < 1 {
		return nil, fmt.Errorf("TABLE_MIN_ROWS inválido: %d", cfg.Extraction.MinRows)
	}
	if cfg.Extraction.MinColumns < 1 {
		return nil, fmt.Errorf("TABLE_MIN_COLUMNS inválido: %d", cfg.Extraction.MinColumns)
	}
	if c := cfg.Extraction.MinConfidence; c < 0 || c > 1 {
		return nil, fmt.Errorf("TABLE_MIN_CONFIDENCE fora do intervalo [0,1]: %g", c)
	}

	return cfg, nil
}

// EnsureDirs creates the upload and output directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.Storage.UploadDir, c.Storage.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("falha ao criar diretório %s: %w", dir, err)
		}
	}
	return nil
}

// CheckTemplate reports whether the template spreadsheet is reachable.
// A missing template is a startup warning, the server still runs.
func (c *Config) CheckTemplate() error {
	info, err := os.Stat(c.Template.Path)
	if err != nil {
		return fmt.Errorf("arquivo de template não encontrado: %s: %w", c.Template.Path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("template %s é um diretório", c.Template.Path)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
