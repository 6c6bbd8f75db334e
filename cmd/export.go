package cmd

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rbenavente/cargas-api/internal/batch"
	batchSqlite "github.com/rbenavente/cargas-api/internal/batch/sqlite"
	"github.com/rbenavente/cargas-api/pkg/logger"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the registrations export to an xlsx file",
	Long: `Write the two-sheet insurer export without going through the HTTP layer.
By default every active registration is included; with --pending only the
ones not yet submitted to the insurer. No submission flag is modified.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		logger.Init(cfg.Logging.Format, cfg.Logging.Level)

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		repo := batchSqlite.NewBatchRepository(db)
		service := batch.NewService(repo, nil, cfg.Insurance.ExportsDir, logger.LoggerWrapper())

		out := exportOut
		if out == "" {
			prefix := "registros"
			if exportPending {
				prefix = "pendientes"
			}
			out = filepath.Join(cfg.Insurance.ExportsDir, batch.ExportFileName(prefix, time.Now()))
		}

		if exportPending {
			err = service.ExportPending(out)
		} else {
			err = service.ExportAll(out)
		}
		if err != nil {
			log.Fatalf("export failed: %v", err)
		}

		fmt.Printf("Export written to %s\n", out)
	},
}
