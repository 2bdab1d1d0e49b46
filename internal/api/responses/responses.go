package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIResponse defines the standard envelope for API responses.
type APIResponse struct {
	Status  string   `json:"status"` // "success" or "error"
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// Writer sends enveloped responses and logs each one.
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a response writer. A nil logger discards the logs.
func NewWriter(logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{logger: logger}
}

// Success sends a successful response with the provided data and message.
func (w *Writer) Success(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, APIResponse{Status: "success", Data: data, Message: message})
	w.logger.Info("API success", zap.String("path", c.Request.URL.Path), zap.Int("status", http.StatusOK))
}

// Error sends an error response with the provided code, message, and optional errors.
func (w *Writer) Error(c *gin.Context, code int, message string, errs ...string) {
	c.JSON(code, APIResponse{Status: "error", Message: message, Errors: errs})
	w.logger.Error("API error",
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", code),
		zap.String("message", message),
		zap.Strings("errors", errs))
}

// File logs a download served by the handler.
func (w *Writer) File(c *gin.Context, path, name string) {
	c.FileAttachment(path, name)
	w.logger.Info("API file", zap.String("path", c.Request.URL.Path), zap.String("arquivo", name))
}
