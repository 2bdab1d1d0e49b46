// cmd/extrator/main.go
package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kevinkley/API-Extrator/internal/api/handlers"
	"github.com/kevinkley/API-Extrator/internal/api/responses"
	"github.com/kevinkley/API-Extrator/internal/config"
	"github.com/kevinkley/API-Extrator/internal/core/converter"
	"github.com/kevinkley/API-Extrator/internal/core/extractor"
	"github.com/kevinkley/API-Extrator/internal/core/filler"
	"github.com/kevinkley/API-Extrator/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Falha ao carregar configuração: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Falha ao iniciar o logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.EnsureDirs(); err != nil {
		logger.Fatal("Falha ao preparar diretórios", zap.Error(err))
	}
	if err := cfg.CheckTemplate(); err != nil {
		logger.Warn("Planilha modelo indisponível, as conversões vão falhar até que ela exista", zap.Error(err))
	}

	extractorService := extractor.NewService(cfg.Extraction, logger)
	fillerService := filler.NewService(cfg.Storage.OutputDir, logger)
	converterService := converter.NewService(extractorService, fillerService, cfg.Template, logger)
	converterHandler := handlers.NewConverterHandler(converterService, extractorService, cfg.Storage.UploadDir, responses.NewWriter(logger), logger)

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/convert", converterHandler.HandleConvert)
		apiV1.POST("/registros", converterHandler.HandleRecords)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "extrator-service"})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	logger.Info("Extrator Service iniciado", zap.String("porta", cfg.Server.Port), zap.String("template", cfg.Template.Path))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Falha ao iniciar o servidor de extração", zap.Error(err))
	}
}
