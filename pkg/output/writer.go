// Package output serializes unified records, one JSON file per record, under
// their shard's directory. Writes for independent records are parallel; a
// failed file does not stop the run, it is retried a few times and then
// counted.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/Kimeiga/kiokun-data-sub000/pkg/dict"
	"github.com/Kimeiga/kiokun-data-sub000/pkg/shard"
	"go.uber.org/zap"
)

// Writer writes unified records into shard directories under Dir.
type Writer struct {
	Dir     string
	Plan    shard.Plan
	Workers int
	// Retries bounds write attempts per file before the record is counted
	// as failed.
	Retries int
	// Only restricts the run to one shard name. The run then owns, and
	// rebuilds, only that shard's directory; empty means every shard.
	Only string
	Log  *zap.Logger
}

// Report is the completion report of a write pass.
type Report struct {
	Written  int
	Failed   int
	PerShard map[string]int
}

// NewWriter builds a writer with sane defaults.
func NewWriter(dir string, plan shard.Plan, workers int, log *zap.Logger) *Writer {
	if workers <= 0 {
		workers = 4
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{Dir: dir, Plan: plan, Workers: workers, Retries: 3, Log: log}
}

// Filename returns the filesystem-safe file name for a headword. The
// encoding is reversible (URL path escaping), so shard contents can be
// mapped back to headwords.
func Filename(headword string) string {
	return url.PathEscape(headword) + ".json"
}

// WriteAll routes every record to its shard and writes it. The shard
// directories the run owns are recreated empty first, reserved one included,
// so a finished run always has the full shard layout and never carries
// records from an earlier input. Partial output from a failed run is
// rebuilt, not resumed; assignment determinism makes that cheap.
func (w *Writer) WriteAll(ctx context.Context, records []*dict.UnifiedRecord) (Report, error) {
	report := Report{PerShard: make(map[string]int)}

	owned := w.Plan.Names()
	if w.Only != "" {
		id, ok := w.Plan.Find(w.Only)
		if !ok {
			return report, fmt.Errorf("unknown shard %q", w.Only)
		}
		owned = []string{w.Plan.Name(id)}
	}
	for _, name := range owned {
		dir := filepath.Join(w.Dir, name)
		if err := os.RemoveAll(dir); err != nil {
			return report, fmt.Errorf("clear shard dir %s: %w", name, err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return report, fmt.Errorf("create shard dir %s: %w", name, err)
		}
	}

	// Assignment is pure, so per-shard counts are known before any write.
	paths := make([]string, len(records))
	for i, rec := range records {
		id := w.Plan.Assign(rec.Headword)
		name := w.Plan.Name(id)
		report.PerShard[name]++
		paths[i] = filepath.Join(w.Dir, name, Filename(rec.Headword))
	}

	pool := newWritePool(w.Workers, w.writeOne, w.Log)
	pool.start(ctx)
	for i := range records {
		if err := pool.submit(records[i], paths[i]); err != nil {
			return report, err
		}
	}
	pool.close()

	var firstErr error
	report.Written, report.Failed, firstErr = pool.result()
	if report.Failed > 0 {
		return report, fmt.Errorf("%d of %d records failed to write: first error: %w",
			report.Failed, len(records), firstErr)
	}
	return report, nil
}

// writeOne marshals and writes a single record, retrying transient IO
// errors.
func (w *Writer) writeOne(rec *dict.UnifiedRecord, path string) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", rec.Headword, err)
	}

	retries := w.Retries
	if retries <= 0 {
		retries = 1
	}
	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 10 * time.Millisecond)
		}
		if lastErr = os.WriteFile(path, data, 0o644); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("write %s after %d attempts: %w", path, retries, lastErr)
}
