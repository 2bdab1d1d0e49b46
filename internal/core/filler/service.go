package filler

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/kevinkley/API-Extrator/internal/domain"
)

const copyAttempts = 3

// Service define a interface de preenchimento da planilha modelo.
type Service interface {
	Fill(records []domain.Record, templatePath, sheetName string) (string, error)
}

type service struct {
	outputDir string
	logger    *zap.Logger
	now       func() time.Time
}

// NewService cria o serviço que grava as cópias preenchidas em outputDir.
func NewService(outputDir string, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{outputDir: outputDir, logger: logger, now: time.Now}
}

// Fill copies the template into the output directory and appends one row
// per record to sheetName, starting right after the last existing row. The
// original template is only read. On any failure after the copy is made
// the copy is removed before the error is returned.
func (svc *service) Fill(records []domain.Record, templatePath, sheetName string) (string, error) {
	resultPath, err := svc.copyTemplate(templatePath)
	if err != nil {
		return "", err
	}

	firstRow, err := svc.fillCopy(resultPath, records, sheetName)
	if err != nil {
		if rmErr := os.Remove(resultPath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			svc.logger.Warn("não foi possível remover a cópia da planilha", zap.String("arquivo", resultPath), zap.Error(rmErr))
		}
		return "", err
	}

	svc.logger.Info("planilha preenchida",
		zap.String("arquivo", resultPath),
		zap.String("aba", sheetName),
		zap.Int("linha_inicial", firstRow),
		zap.Int("registros", len(records)))
	return resultPath, nil
}

// copyTemplate duplicates the template byte for byte under a fresh name.
func (svc *service) copyTemplate(templatePath string) (string, error) {
	src, err := os.Open(templatePath)
	if err != nil {
		return "", fmt.Errorf("erro ao abrir a planilha modelo: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(svc.outputDir, 0755); err != nil {
		return "", fmt.Errorf("falha ao criar diretório de saída: %w", err)
	}

	var dst *os.File
	var dstPath string
	for attempt := 0; attempt < copyAttempts; attempt++ {
		dstPath = filepath.Join(svc.outputDir, svc.resultName())
		dst, err = os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil || !errors.Is(err, fs.ErrExist) {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("erro ao criar cópia da planilha modelo: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dstPath)
		return "", fmt.Errorf("erro ao copiar a planilha modelo: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("erro ao copiar a planilha modelo: %w", err)
	}
	return dstPath, nil
}

func (svc *service) resultName() string {
	return fmt.Sprintf("resultado_%s_%s.xlsx", svc.now().Format("20060102_150405"), uuid.NewString()[:8])
}

// fillCopy writes the records into the copy and saves it. It returns the
// first row written.
func (svc *service) fillCopy(path string, records []domain.Record, sheetName string) (int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, fmt.Errorf("erro ao abrir a cópia da planilha modelo: %w", err)
	}
	defer f.Close()

	// excelize resolves sheet names case-insensitively; the target must match exactly
	sheets := f.GetSheetList()
	if !slices.Contains(sheets, sheetName) {
		return 0, newTemplateError(sheetName, sheets)
	}

	lastRow, err := maxRow(f, sheetName)
	if err != nil {
		return 0, fmt.Errorf("erro ao ler a aba '%s': %w", sheetName, err)
	}
	startRow := lastRow + 1

	for i, rec := range records {
		row := startRow + i
		for _, col := range Columns {
			cell, err := excelize.CoordinatesToCellName(col.Index(), row)
			if err != nil {
				return 0, err
			}
			if err := f.SetCellValue(sheetName, cell, col.value(rec)); err != nil {
				return 0, fmt.Errorf("erro ao gravar %s na célula %s: %w", col.Field, cell, err)
			}
		}
	}

	if err := f.Save(); err != nil {
		return 0, fmt.Errorf("erro ao salvar a planilha: %w", err)
	}
	return startRow, nil
}

// maxRow returns the number of the last row present in the sheet, counting
// rows that only carry formatting. An empty sheet yields 0.
func maxRow(f *excelize.File, sheet string) (int, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return 0, err
	}
	n := 0
	for rows.Next() {
		n++
	}
	if err := rows.Error(); err != nil {
		rows.Close()
		return 0, err
	}
	return n, rows.Close()
}
