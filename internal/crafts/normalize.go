package crafts

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// DefaultSource is the meta.source label of exports captured from the game
// socket's getCraftItemComplete_ALL event.
const DefaultSource = "ROIdle Socket.IO getCraftItemComplete_ALL"

// SkipRecorder receives every skipped payload and dropped material.
type SkipRecorder interface {
	RecordSkip(Skip) error
}

type Options struct {
	Input    string
	Output   string
	Source   string
	Validate bool

	// Skips and Logger are optional.
	Skips  SkipRecorder
	Logger *log.Logger
}

// Stats summarizes one run.
type Stats struct {
	Entries          int
	Recipes          int
	Primaries        int
	Alternatives     int
	DroppedMaterials int
	Skipped          map[SkipReason]int
}

// Run loads opts.Input, normalizes it and writes opts.Output.
func Run(opts Options) (Stats, error) {
	src, err := Load(opts.Input)
	if err != nil {
		return Stats{}, err
	}
	return Process(src, opts)
}

// Process normalizes an already loaded export and writes opts.Output;
// opts.Input is ignored.
func Process(src *Source, opts Options) (Stats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger.Info("loaded export", "path", src.Path, "shape", src.Shape, "entries", len(src.Entries), "sha256", src.Digest)

	source := opts.Source
	if source == "" {
		source = DefaultSource
	}
	doc, stats, err := Normalize(src, source, opts.Skips, logger)
	if err != nil {
		return stats, err
	}
	if err := Write(opts.Output, doc, opts.Validate); err != nil {
		return stats, fmt.Errorf("write %s: %w", opts.Output, err)
	}
	logger.Info("normalized",
		"recipes", stats.Recipes,
		"primaries", stats.Primaries,
		"alternatives", stats.Alternatives,
		"skipped", stats.Skipped,
		"dropped_materials", stats.DroppedMaterials,
	)
	return stats, nil
}

// Normalize extracts and indexes every entry of src in order.
func Normalize(src *Source, source string, skips SkipRecorder, logger *log.Logger) (*Document, Stats, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	stats := Stats{Entries: len(src.Entries), Skipped: map[SkipReason]int{}}
	ix := NewIndexer()

	for _, e := range src.Entries {
		rec, dropped, err := Extract(e)
		for _, s := range dropped {
			if s.IsMaterial() {
				stats.DroppedMaterials++
				logger.Debug("dropped material", "key", s.Key, "index", s.MaterialIndex, "reason", s.Reason)
			} else {
				stats.Skipped[s.Reason]++
				logger.Debug("skipped entry", "key", s.Key, "reason", s.Reason)
			}
			if skips != nil {
				if err := skips.RecordSkip(s); err != nil {
					return nil, stats, fmt.Errorf("record skip: %w", err)
				}
			}
		}
		if err != nil {
			return nil, stats, err
		}
		if rec == nil {
			continue
		}
		ix.Add(rec)
		stats.Recipes++
	}

	stats.Primaries = ix.ByOutputItemID().Len()
	stats.Alternatives = ix.Alternatives()
	doc := ix.Document(Meta{Source: source, GeneratedFrom: filepath.Base(src.Path)})
	return doc, stats, nil
}
