package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kevinkley/API-Extrator/internal/config"
	"github.com/kevinkley/API-Extrator/internal/core/converter"
	"github.com/kevinkley/API-Extrator/internal/core/extractor"
	"github.com/kevinkley/API-Extrator/internal/core/filler"
	"github.com/kevinkley/API-Extrator/internal/logging"
)

type cliOptions struct {
	template string
	sheet    string
	output   string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "extrator-cli <arquivo.pdf>",
		Short:         "Extrai os pagamentos de um relatório PDF para a planilha modelo do Omie",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(opts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			svc := converter.NewService(
				extractor.NewService(cfg.Extraction, logger),
				filler.NewService(cfg.Storage.OutputDir, logger),
				cfg.Template,
				logger,
			)

			result, err := svc.Convert(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if result.Empty {
				fmt.Fprintln(out, "Nenhum registro encontrado no PDF.")
				return nil
			}
			fmt.Fprintf(out, "%d registro(s) gravado(s) em %s\n", result.Records, result.Path)
			return nil
		},
	}

	root.Flags().StringVar(&opts.template, "template", "", "planilha modelo (padrão: TEMPLATE_XLSX)")
	root.Flags().StringVar(&opts.sheet, "aba", "", "aba de destino (padrão: ABA_DESTINO)")
	root.Flags().StringVar(&opts.output, "saida", "", "diretório de saída (padrão: OUTPUT_DIR)")

	root.AddCommand(newRecordsCmd(opts))
	return root
}

func newRecordsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "registros <arquivo.pdf>",
		Short: "Mostra os registros extraídos do PDF em JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(opts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			records, err := extractor.NewService(cfg.Extraction, logger).Extract(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		},
	}
}

// setup loads the configuration and applies the flag overrides.
func setup(opts *cliOptions) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if opts.template != "" {
		cfg.Template.Path = opts.template
	}
	if opts.sheet != "" {
		cfg.Template.Sheet = opts.sheet
	}
	if opts.output != "" {
		cfg.Storage.OutputDir = opts.output
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao iniciar o logger: %w", err)
	}
	return cfg, logger, nil
}
