package translit

import (
	"context"
	"database/sql"
	"fmt"
)

// Converter is the external conversion pass, interface only. It maps a batch
// of kanji sequences to their Traditional-Chinese forms; sequences it cannot
// convert are simply absent from the result.
type Converter interface {
	Convert(ctx context.Context, sequences []string) (map[string]string, error)
}

// buildBatchSize keeps converter calls bounded; the table is built in bulk
// for throughput, not per-lookup.
const buildBatchSize = 500

// Build runs the converter over every sequence in batches and persists the
// resulting mappings. Returns the total number of mappings stored.
func Build(ctx context.Context, db *sql.DB, sequences []string, conv Converter) (int, error) {
	total := 0
	for start := 0; start < len(sequences); start += buildBatchSize {
		end := start + buildBatchSize
		if end > len(sequences) {
			end = len(sequences)
		}
		mapped, err := conv.Convert(ctx, sequences[start:end])
		if err != nil {
			return total, fmt.Errorf("convert batch at %d: %w", start, err)
		}
		if len(mapped) == 0 {
			continue
		}
		if err := SaveMappings(db, mapped); err != nil {
			return total, err
		}
		total += len(mapped)
	}
	return total, nil
}
