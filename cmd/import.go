package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"distrofm/config"
	"distrofm/core/importer"
	"distrofm/logger"
	"distrofm/model"

	"github.com/spf13/cobra"
)

var (
	importTypeFlag string
	importModeFlag string
	importWatchDir string
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Run the bulk import pipeline",
	Long: `Validate and classify a bulk import file (XLSX, CSV, JSON or XML) without
starting the server. With --watch, keep watching a drop directory and import
every file that appears in it.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.InitLogger(logger.Config{
			Level:      logger.LogLevel(cfg.LogLevel),
			OutputPath: cfg.LogFile,
		})

		imp, err := importer.New()
		if err != nil {
			log.Fatalf("Failed to initialize importer: %v", err)
		}

		importType := model.ImportType(importTypeFlag)
		mode := model.ValidationMode(importModeFlag)

		if importWatchDir != "" {
			runImportWatcher(imp, importWatchDir, importType, mode)
			return
		}

		if len(args) == 0 {
			log.Fatal("A file argument is required unless --watch is given")
		}

		file, err := os.Open(args[0])
		if err != nil {
			log.Fatalf("Failed to open %s: %v", args[0], err)
		}
		defer file.Close()

		outcome, err := imp.ImportFile(filepath.Base(args[0]), file, importType, mode)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		printOutcome(filepath.Base(args[0]), outcome)
	},
}

func runImportWatcher(imp *importer.Importer, dir string, importType model.ImportType, mode model.ValidationMode) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
	}()

	watcher := importer.NewWatcher(imp, dir, importType, mode, printOutcome)
	if err := watcher.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Import watcher failed: %v", err)
	}
}

func printOutcome(filename string, outcome model.ImportOutcome) {
	encoded, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode outcome: %v", err)
	}
	fmt.Printf("%s:\n%s\n", filename, encoded)
}

func init() {
	importCmd.Flags().StringVar(&importTypeFlag, "type", string(model.ImportTypeReleases), "import type: releases, tracks or artists")
	importCmd.Flags().StringVar(&importModeFlag, "mode", string(model.ValidationModeLenient), "validation mode: strict or lenient")
	importCmd.Flags().StringVar(&importWatchDir, "watch", "", "watch a drop directory instead of importing one file")
	rootCmd.AddCommand(importCmd)
}
