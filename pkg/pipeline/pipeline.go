// Package pipeline runs the full batch: load both sources, merge on the
// transliterated key, align, consolidate, shard, write. Stages run to
// completion in memory before the write stage begins; nothing blocks on the
// network.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/Kimeiga/kiokun-data-sub000/pkg/align"
	"github.com/Kimeiga/kiokun-data-sub000/pkg/config"
	"github.com/Kimeiga/kiokun-data-sub000/pkg/consolidate"
	"github.com/Kimeiga/kiokun-data-sub000/pkg/dict"
	"github.com/Kimeiga/kiokun-data-sub000/pkg/loader"
	"github.com/Kimeiga/kiokun-data-sub000/pkg/merge"
	"github.com/Kimeiga/kiokun-data-sub000/pkg/metrics"
	"github.com/Kimeiga/kiokun-data-sub000/pkg/output"
	"github.com/Kimeiga/kiokun-data-sub000/pkg/shard"
	"github.com/Kimeiga/kiokun-data-sub000/pkg/translit"
	"go.uber.org/zap"
)

// Options select what a run materializes.
type Options struct {
	// Shard is "all" (or empty) for every shard, or one shard name for
	// partial/parallel builds.
	Shard string
	// UnifiedOnly keeps only records with contributions from both
	// languages.
	UnifiedOnly bool
}

// Report aggregates every counter of a run. A run succeeds if it completes
// the pipeline; skipped, dropped, and failed records are reported, never
// silently lost.
type Report struct {
	Chinese  loader.Stats
	Japanese loader.Stats
	Merge    merge.Stats
	Aligned  int
	Records  int
	Output   output.Report
	Duration time.Duration
}

// Pipeline wires the stages together.
type Pipeline struct {
	cfg config.Config
	log *zap.Logger
	m   *metrics.Metrics
}

// New builds a pipeline. log and m may be nil.
func New(cfg config.Config, log *zap.Logger, m *metrics.Metrics) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Pipeline{cfg: cfg, log: log, m: m}
}

// Run executes the batch and returns its report.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()
	report := &Report{}

	plan := shard.Plan{
		OneHan:   p.cfg.Shards.OneHan,
		TwoHan:   p.cfg.Shards.TwoHan,
		MultiHan: p.cfg.Shards.MultiHan,
	}
	var only shard.ID
	filterShard := opts.Shard != "" && opts.Shard != "all"
	if filterShard {
		id, ok := plan.Find(opts.Shard)
		if !ok {
			return nil, fmt.Errorf("unknown shard %q", opts.Shard)
		}
		only = id
	}

	chinese, zhStats, err := loader.LoadCEDICT(p.cfg.ChineseSource, p.log)
	if err != nil {
		return nil, err
	}
	report.Chinese = zhStats
	p.m.RecordsLoaded.WithLabelValues("chinese").Add(float64(zhStats.Loaded))
	p.m.RecordsMalformed.WithLabelValues("chinese").Add(float64(zhStats.Skipped))
	p.log.Info("chinese source loaded",
		zap.Int("loaded", zhStats.Loaded), zap.Int("skipped", zhStats.Skipped))

	japanese, jaStats, err := loader.LoadJMdict(p.cfg.JapaneseSource, p.log)
	if err != nil {
		return nil, err
	}
	report.Japanese = jaStats
	p.m.RecordsLoaded.WithLabelValues("japanese").Add(float64(jaStats.Loaded))
	p.m.RecordsMalformed.WithLabelValues("japanese").Add(float64(jaStats.Skipped))
	p.log.Info("japanese source loaded",
		zap.Int("loaded", jaStats.Loaded), zap.Int("skipped", jaStats.Skipped))

	table, err := p.loadTable()
	if err != nil {
		return nil, err
	}
	p.log.Info("transliteration table loaded", zap.Int("mappings", table.Len()))

	combined, mergeStats := merge.Merge(chinese, japanese, table, p.log)
	report.Merge = mergeStats
	p.m.EntriesUnmatched.Add(float64(mergeStats.Unmatched))
	p.m.RecordsMalformed.WithLabelValues("chinese").Add(float64(mergeStats.ChineseSkipped))
	p.log.Info("merge complete",
		zap.Int("keys", mergeStats.Keys),
		zap.Int("transliterated", mergeStats.Transliterated),
		zap.Int("kanaFallback", mergeStats.KanaFallback),
		zap.Int("unmatched", mergeStats.Unmatched))

	scorer, err := align.NewScorer(p.log)
	if err != nil {
		return nil, err
	}
	report.Aligned = scorer.AlignAll(combined)
	p.m.EntriesAligned.Add(float64(report.Aligned))
	p.log.Info("alignment complete", zap.Int("reRanked", report.Aligned))

	var records []*dict.UnifiedRecord
	for _, key := range merge.SortedKeys(combined) {
		ce := combined[key]
		if opts.UnifiedOnly && !ce.HasBoth() {
			continue
		}
		rec := consolidate.Consolidate(ce)
		if filterShard && plan.Assign(rec.Headword) != only {
			continue
		}
		// Counted after the shard filter so the metric tracks what this
		// run actually materializes.
		for _, def := range rec.Definitions {
			p.m.Definitions.WithLabelValues(string(def.Origin)).Inc()
		}
		records = append(records, rec)
	}
	report.Records = len(records)
	p.log.Info("consolidation complete", zap.Int("records", len(records)))

	writer := output.NewWriter(p.cfg.OutputDir, plan, p.cfg.Workers, p.log)
	writer.Retries = p.cfg.WriteRetries
	if filterShard {
		writer.Only = opts.Shard
	}
	out, err := writer.WriteAll(ctx, records)
	report.Output = out
	report.Duration = time.Since(start)
	p.m.WritesOK.Add(float64(out.Written))
	p.m.WritesFailed.Add(float64(out.Failed))
	for name, n := range out.PerShard {
		p.m.ShardRecords.WithLabelValues(name).Set(float64(n))
	}
	if err != nil {
		return report, err
	}

	p.log.Info("pipeline complete",
		zap.Int("written", out.Written),
		zap.Int("failed", out.Failed),
		zap.Duration("duration", report.Duration))
	return report, nil
}

func (p *Pipeline) loadTable() (*translit.Table, error) {
	db, err := translit.Open(p.cfg.TranslitDB)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return translit.LoadTable(db)
}
