package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/philipparndt/ifctakeoff/pkg/ifc"
)

// loadModel parses an IFC file and logs what was loaded
func loadModel(log *slog.Logger, path string) (*ifc.Model, error) {
	start := time.Now()

	model, err := ifc.Parse(path)
	if err != nil {
		return nil, err
	}

	attrs := []any{
		"path", path,
		"schema", model.Schema,
		"entities", model.EntityCount(),
		"took", time.Since(start).Round(time.Millisecond),
	}
	if info, statErr := os.Stat(path); statErr == nil {
		attrs = append(attrs, "size", humanize.Bytes(uint64(info.Size())))
	}
	log.Info("model loaded", attrs...)

	return model, nil
}
