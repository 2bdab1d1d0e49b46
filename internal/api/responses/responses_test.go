package responses

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func serve(w *Writer, handler func(*Writer, *gin.Context)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) { handler(w, c) })
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	return rec
}

func TestWriter(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	w := NewWriter(zap.New(core))

	rec := serve(w, func(w *Writer, c *gin.Context) { w.Success(c, gin.H{"n": 1}, "ok") })
	require.Equal(t, http.StatusOK, rec.Code)
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "ok", resp.Message)
	assert.Equal(t, map[string]any{"n": 1.0}, resp.Data)

	rec = serve(w, func(w *Writer, c *gin.Context) { w.Error(c, http.StatusTeapot, "falhou", "detalhe") })
	require.Equal(t, http.StatusTeapot, rec.Code)
	resp = APIResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, []string{"detalhe"}, resp.Errors)

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "API success", logs.All()[0].Message)
	assert.Equal(t, int64(http.StatusTeapot), logs.All()[1].ContextMap()["status"])
}
