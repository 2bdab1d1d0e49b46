package converter

import (
	"go.uber.org/zap"

	"github.com/kevinkley/API-Extrator/internal/config"
	"github.com/kevinkley/API-Extrator/internal/core/extractor"
	"github.com/kevinkley/API-Extrator/internal/core/filler"
)

// Result describes the outcome of one conversion.
type Result struct {
	Path    string `json:"path,omitempty"`
	Records int    `json:"records"`
	Empty   bool   `json:"empty"`
}

// Service define a interface do fluxo PDF → planilha.
type Service interface {
	Convert(pdfPath string) (Result, error)
}

type service struct {
	extractor extractor.Service
	filler    filler.Service
	template  config.TemplateConfig
	logger    *zap.Logger
}

// NewService cria o serviço de conversão a partir dos serviços de extração e preenchimento.
func NewService(ext extractor.Service, fill filler.Service, template config.TemplateConfig, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{extractor: ext, filler: fill, template: template, logger: logger}
}

// Convert extracts the records of pdfPath and appends them to a fresh copy
// of the configured template. A PDF without records yields Result.Empty and
// no file.
func (svc *service) Convert(pdfPath string) (Result, error) {
	records, err := svc.extractor.Extract(pdfPath)
	if err != nil {
		return Result{}, err
	}
	if len(records) == 0 {
		svc.logger.Info("nenhum registro encontrado", zap.String("arquivo", pdfPath))
		return Result{Empty: true}, nil
	}

	path, err := svc.filler.Fill(records, svc.template.Path, svc.template.Sheet)
	if err != nil {
		return Result{}, err
	}
	return Result{Path: path, Records: len(records)}, nil
}
