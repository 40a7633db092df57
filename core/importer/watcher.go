package importer

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"distrofm/logger"
	"distrofm/model"

	"github.com/fsnotify/fsnotify"
)

// Sink receives the classified outcome of each watched-directory import.
type Sink func(filename string, outcome model.ImportOutcome)

// Watcher imports files dropped into a directory. Each newly created file
// with a supported extension is run through the pipeline once.
type Watcher struct {
	importer   *Importer
	dir        string
	importType model.ImportType
	mode       model.ValidationMode
	sink       Sink
}

func NewWatcher(imp *Importer, dir string, importType model.ImportType, mode model.ValidationMode, sink Sink) *Watcher {
	return &Watcher{
		importer:   imp,
		dir:        dir,
		importType: importType,
		mode:       mode,
		sink:       sink,
	}
}

// Run watches the directory until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}
	if err := watcher.Add(w.dir); err != nil {
		return err
	}

	logger.Info("Watching import directory",
		logger.String("dir", w.dir),
		logger.String("type", string(w.importType)))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == 0 {
				continue
			}
			if !SupportedExtension(event.Name) {
				logger.Warn("Ignoring unsupported file in import directory",
					logger.String("file", event.Name))
				continue
			}
			w.importFile(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Import watcher error", logger.ErrorField(err))
		}
	}
}

func (w *Watcher) importFile(path string) {
	// Give the writer a moment to finish; drop directories are filled by
	// copies, not atomic renames.
	time.Sleep(500 * time.Millisecond)

	file, err := os.Open(path)
	if err != nil {
		logger.Error("Failed to open dropped file",
			logger.String("file", path),
			logger.ErrorField(err))
		return
	}
	defer file.Close()

	outcome, err := w.importer.ImportFile(filepath.Base(path), file, w.importType, w.mode)
	if err != nil {
		logger.Error("Failed to import dropped file",
			logger.String("file", path),
			logger.ErrorField(err))
		return
	}

	if w.sink != nil {
		w.sink(filepath.Base(path), outcome)
	}
}
