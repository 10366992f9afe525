// Package skiplog writes an audit trail of export entries that produced no
// recipe and of material rows dropped from produced recipes.
package skiplog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"

	"roidlecraft/internal/crafts"
)

// Record is one JSONL line. Index is the material row position and is only
// set for dropped materials.
type Record struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
	Index  *int   `json:"index,omitempty"`
}

// Writer appends JSONL records to a file, zstd-compressed when the path ends
// in .zst. The file is truncated on open.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
	n   int
}

func Open(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	w := &Writer{f: f}
	if strings.HasSuffix(path, ".zst") {
		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		w.enc = enc
		w.w = bufio.NewWriterSize(enc, 64*1024)
	} else {
		w.w = bufio.NewWriterSize(f, 64*1024)
	}
	return w, nil
}

func (w *Writer) RecordSkip(s crafts.Skip) error {
	rec := Record{Key: s.Key, Reason: string(s.Reason)}
	if s.IsMaterial() {
		idx := s.MaterialIndex
		rec.Index = &idx
	}
	return w.Write(rec)
}

func (w *Writer) Write(rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	w.n++
	return nil
}

// Count reports how many records were written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.n
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err1 error
	if w.w != nil {
		err1 = w.w.Flush()
		w.w = nil
	}
	if w.enc != nil {
		if err := w.enc.Close(); err1 == nil {
			err1 = err
		}
		w.enc = nil
	}
	if w.f != nil {
		if err := w.f.Close(); err1 == nil {
			err1 = err
		}
		w.f = nil
	}
	return err1
}
