package extractor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tsawler/tabula/reader"
	"github.com/tsawler/tabula/tables"
	"go.uber.org/zap"

	"github.com/kevinkley/API-Extrator/internal/config"
	"github.com/kevinkley/API-Extrator/internal/domain"
)

// Posições fixas das colunas na tabela do relatório.
const (
	colFornecedor = 1
	colChavePix   = 3
	colTotalPagar = 14

	minCells = 2
)

// Service define a interface de extração de registros a partir de PDFs.
type Service interface {
	Extract(pdfPath string) ([]domain.Record, error)
	ExtractReader(r io.ReaderAt, size int64) ([]domain.Record, error)
}

type service struct {
	opts     config.ExtractionConfig
	detector tables.Detector
	setupErr error
	logger   *zap.Logger
	now      func() time.Time
}

// NewService cria uma nova instância do serviço de extração.
func NewService(opts config.ExtractionConfig, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &service{opts: opts, logger: logger, now: time.Now}

	svc.detector = tables.GetDetector("geometric")
	if svc.detector == nil {
		svc.setupErr = errors.New("detector geométrico de tabelas indisponível")
	} else if err := svc.detector.Configure(detectorConfig(opts)); err != nil {
		svc.setupErr = fmt.Errorf("configuração do detector de tabelas inválida: %w", err)
	}
	return svc
}

// Extract reads every page of the PDF at pdfPath and returns one Record per
// qualifying table row, in document order. A document without qualifying
// rows yields an empty slice and a nil error.
func (svc *service) Extract(pdfPath string) ([]domain.Record, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, newExtractionError(pdfPath, 0, err)
	}
	defer f.Close()

	return svc.readRecords(pdfPath, func() (*reader.Reader, error) { return reader.New(f) })
}

// ExtractReader is Extract over an in-memory document.
func (svc *service) ExtractReader(ra io.ReaderAt, size int64) ([]domain.Record, error) {
	sr := io.NewSectionReader(ra, 0, size)
	return svc.readRecords("<reader>", func() (*reader.Reader, error) { return reader.New(sr) })
}

// readRecords parses the document and takes the first detected table of
// each page. Panics raised while decoding content streams are turned into
// an ExtractionError.
func (svc *service) readRecords(source string, open func() (*reader.Reader, error)) (records []domain.Record, err error) {
	if svc.setupErr != nil {
		return nil, newExtractionError(source, 0, svc.setupErr)
	}

	page := 0
	defer func() {
		if rec := recover(); rec != nil {
			records = nil
			err = newExtractionError(source, page, fmt.Errorf("%v", rec))
		}
	}()

	pdfReader, err := open()
	if err != nil {
		return nil, newExtractionError(source, 0, err)
	}
	doc, err := pdfReader.Parse()
	if err != nil {
		return nil, newExtractionError(source, 0, err)
	}

	now := svc.now()
	records = make([]domain.Record, 0)
	for i, p := range doc.Pages {
		page = i + 1

		detected, detectErr := svc.detector.Detect(p)
		if detectErr != nil {
			return nil, newExtractionError(source, page, detectErr)
		}
		if len(detected) == 0 {
			svc.logger.Debug("nenhuma tabela detectada", zap.String("arquivo", source), zap.Int("pagina", page))
			continue
		}

		rows, rowsErr := rowsFromTable(detected[0])
		if rowsErr != nil {
			return nil, newExtractionError(source, page, rowsErr)
		}
		records = append(records, svc.recordsFromRows(rows, source, page, now)...)
	}

	svc.logger.Info("extração concluída",
		zap.String("arquivo", source),
		zap.Int("paginas", len(doc.Pages)),
		zap.Int("registros", len(records)))
	return records, nil
}

// recordsFromRows skips the header and converts each qualifying row.
func (svc *service) recordsFromRows(rows []tableRow, source string, page int, now time.Time) []domain.Record {
	var out []domain.Record
	if len(rows) < 2 {
		return out
	}

	for i, row := range rows[1:] {
		if len(row) < minCells {
			continue
		}
		nome, _ := row.Cell(colFornecedor)
		if nome == "" || isHeaderEcho(nome) {
			continue
		}

		valor := domain.Amount{Status: domain.AmountMissing}
		if raw, ok := row.Cell(colTotalPagar); ok {
			valor = ParseAmount(raw)
		}
		if valor.Status == domain.AmountInvalid {
			svc.logger.Warn("valor não numérico, usando 0",
				zap.String("arquivo", source),
				zap.Int("pagina", page),
				zap.Int("linha", i+2),
				zap.String("valor", valor.Raw))
		}

		chavePix, _ := row.Cell(colChavePix)
		out = append(out, domain.NewRecord(nome, valor.Value, chavePix, now))
	}
	return out
}
