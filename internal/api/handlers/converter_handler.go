package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kevinkley/API-Extrator/internal/api/responses"
	"github.com/kevinkley/API-Extrator/internal/core/converter"
	"github.com/kevinkley/API-Extrator/internal/core/extractor"
	"github.com/kevinkley/API-Extrator/internal/core/filler"
)

const (
	formField = "pdf_file"
	xlsxMIME  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	ErrMissingFile     = errors.New("nenhum arquivo enviado")
	ErrInvalidName     = errors.New("nome de arquivo inválido")
	ErrUnsupportedFile = errors.New("tipo de arquivo não permitido")
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ConverterHandler lida com as requisições de conversão de PDF em planilha.
type ConverterHandler struct {
	service   converter.Service
	extractor extractor.Service
	uploadDir string
	resp      *responses.Writer
	logger    *zap.Logger
}

// NewConverterHandler cria um novo handler de conversão.
func NewConverterHandler(service converter.Service, ext extractor.Service, uploadDir string, resp *responses.Writer, logger *zap.Logger) *ConverterHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resp == nil {
		resp = responses.NewWriter(logger)
	}
	return &ConverterHandler{service: service, extractor: ext, uploadDir: uploadDir, resp: resp, logger: logger}
}

// HandleConvert recebe o PDF, executa a conversão e devolve a planilha preenchida.
func (h *ConverterHandler) HandleConvert(c *gin.Context) {
	pdfPath, err := h.saveUpload(c)
	if err != nil {
		h.uploadError(c, err)
		return
	}

	result, err := h.service.Convert(pdfPath)
	if err != nil {
		var extErr *extractor.ExtractionError
		var tplErr *filler.TemplateError
		switch {
		case errors.As(err, &extErr):
			h.resp.Error(c, http.StatusUnprocessableEntity, "Erro ao extrair dados do PDF", err.Error())
		case errors.As(err, &tplErr):
			h.resp.Error(c, http.StatusInternalServerError, "Erro ao preencher a planilha modelo", err.Error())
		default:
			h.resp.Error(c, http.StatusInternalServerError, "Erro ao gerar a planilha", err.Error())
		}
		return
	}
	if result.Empty {
		h.resp.Error(c, http.StatusUnprocessableEntity, "Nenhum registro encontrado no PDF")
		return
	}

	h.logger.Info("conversão concluída",
		zap.String("arquivo", pdfPath),
		zap.String("resultado", result.Path),
		zap.Int("registros", result.Records))
	c.Header("Content-Type", xlsxMIME)
	h.resp.File(c, result.Path, filepath.Base(result.Path))
}

// HandleRecords extrai os registros do PDF enviado e os devolve em JSON, sem gerar planilha.
func (h *ConverterHandler) HandleRecords(c *gin.Context) {
	fileHeader, _, err := uploadedPDF(c)
	if err != nil {
		h.uploadError(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.resp.Error(c, http.StatusInternalServerError, "Não foi possível abrir o arquivo enviado", err.Error())
		return
	}
	defer file.Close()

	records, err := h.extractor.ExtractReader(file, fileHeader.Size)
	if err != nil {
		var extErr *extractor.ExtractionError
		if errors.As(err, &extErr) {
			h.resp.Error(c, http.StatusUnprocessableEntity, "Erro ao extrair dados do PDF", err.Error())
			return
		}
		h.resp.Error(c, http.StatusInternalServerError, "Erro ao extrair dados do PDF", err.Error())
		return
	}
	h.resp.Success(c, records, fmt.Sprintf("%d registro(s) extraído(s)", len(records)))
}

func (h *ConverterHandler) uploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMissingFile):
		h.resp.Error(c, http.StatusBadRequest, "Nenhum arquivo enviado")
	case errors.Is(err, ErrInvalidName):
		h.resp.Error(c, http.StatusBadRequest, "Nome de arquivo inválido")
	case errors.Is(err, ErrUnsupportedFile):
		h.resp.Error(c, http.StatusBadRequest, "Tipo de arquivo não permitido. Envie um PDF.")
	default:
		h.resp.Error(c, http.StatusInternalServerError, "Não foi possível salvar o arquivo enviado", err.Error())
	}
}

// uploadedPDF validates the pdf_file part and returns it with its sanitized name.
func uploadedPDF(c *gin.Context) (*multipart.FileHeader, string, error) {
	fileHeader, err := c.FormFile(formField)
	if err != nil {
		return nil, "", ErrMissingFile
	}

	name := sanitizeFilename(fileHeader.Filename)
	if name == "" {
		return nil, "", ErrInvalidName
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(name))
	}
	return fileHeader, name, nil
}

// saveUpload stores the uploaded PDF under a collision-free name.
func (h *ConverterHandler) saveUpload(c *gin.Context) (string, error) {
	fileHeader, name, err := uploadedPDF(c)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(h.uploadDir, uuid.NewString()[:8]+"_"+name)
	if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
		return "", fmt.Errorf("falha ao salvar upload: %w", err)
	}
	return dst, nil
}

// sanitizeFilename keeps only the base name with a conservative character set.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeNameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" || strings.EqualFold(name, "pdf") {
		return ""
	}
	return name
}
