package main

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Piecework-api/internal/application/inventory"
	"github.com/jhoicas/Piecework-api/internal/infrastructure/csvimport"
	"github.com/jhoicas/Piecework-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Piecework-api/pkg/telemetry"
)

func newImportCmd() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Importa datos desde archivos",
	}

	var charset, comma string
	batchesCmd := &cobra.Command{
		Use:   "batches <archivo.csv>",
		Short: "Registra lotes de producción desde un CSV (reimportar no duplica)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sep, size := utf8.DecodeRuneInString(comma)
			if size == 0 || size != len(comma) {
				return fmt.Errorf("--comma debe ser un único carácter: %q", comma)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("abrir CSV: %w", err)
			}
			defer f.Close()

			rows, err := csvimport.ReadBatches(f, csvimport.Options{Charset: charset, Comma: sep})
			if err != nil {
				return err
			}

			cfg, log, err := loadConfigAndLogger()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			tel, err := telemetry.New(ctx, cfg.Telemetry, version)
			if err != nil {
				return err
			}
			defer func() { _ = tel.Shutdown(ctx) }()

			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return fmt.Errorf("conexión a PostgreSQL: %w", err)
			}
			defer pool.Close()

			uc := inventory.NewPieceworkUseCase(
				postgres.NewPieceworkBatchRepository(pool),
				inventory.DefaultPagination,
				tel.TracerProvider(),
				log.Component("import"),
			)
			ctx, span := tel.Tracer("piecework/cmd").Start(ctx, "import batches",
				trace.WithAttributes(attribute.String("file", args[0]), attribute.Int("rows", len(rows))))
			defer span.End()
			summary, err := uc.ImportBatches(ctx, rows)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d filas, %d lotes creados, %d órdenes ya registradas\n",
				args[0], len(rows), summary.Created, summary.Skipped)
			return err
		},
	}
	batchesCmd.Flags().StringVar(&charset, "charset", "utf-8", "Codificación del archivo (utf-8, latin1, cp1252)")
	batchesCmd.Flags().StringVar(&comma, "comma", ",", "Separador de columnas")

	importCmd.AddCommand(batchesCmd)
	return importCmd
}
