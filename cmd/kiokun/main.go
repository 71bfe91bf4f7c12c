package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kimeiga/kiokun-data-sub000/pkg/config"
	"github.com/Kimeiga/kiokun-data-sub000/pkg/loader"
	"github.com/Kimeiga/kiokun-data-sub000/pkg/logging"
	"github.com/Kimeiga/kiokun-data-sub000/pkg/metrics"
	"github.com/Kimeiga/kiokun-data-sub000/pkg/pipeline"
	"github.com/Kimeiga/kiokun-data-sub000/pkg/translit"
	"go.uber.org/zap"
)

func main() {
	configFlag := flag.String("config", "", "Path to YAML config file")
	shardFlag := flag.String("shard", "all", "Shard to materialize: all, or one shard name")
	unifiedFlag := flag.Bool("unified-only", false, "Write only entries with contributions from both languages")
	extractFlag := flag.String("extract-kanji", "", "Write distinct kanji sequences from the Japanese source to this file and exit")
	importFlag := flag.String("import-translit", "", "Import a kanji<TAB>traditional mapping TSV into the transliteration db and exit")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Logging.Env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch {
	case *extractFlag != "":
		if err := runExtract(cfg, *extractFlag, log); err != nil {
			log.Fatal("extract-kanji failed", zap.Error(err))
		}
	case *importFlag != "":
		if err := runImport(cfg, *importFlag, log); err != nil {
			log.Fatal("import-translit failed", zap.Error(err))
		}
	default:
		if err := runBuild(ctx, cfg, *shardFlag, *unifiedFlag, log); err != nil {
			log.Fatal("build failed", zap.Error(err))
		}
	}
}

func runBuild(ctx context.Context, cfg config.Config, shardName string, unifiedOnly bool, log *zap.Logger) error {
	m := metrics.New()
	if cfg.MetricsAddr != "" {
		srv := m.Serve(cfg.MetricsAddr)
		defer srv.Close()
		log.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
	}

	p := pipeline.New(cfg, log, m)
	report, err := p.Run(ctx, pipeline.Options{Shard: shardName, UnifiedOnly: unifiedOnly})
	if report != nil {
		log.Info("run report",
			zap.Int("chineseLoaded", report.Chinese.Loaded),
			zap.Int("chineseSkipped", report.Chinese.Skipped),
			zap.Int("japaneseLoaded", report.Japanese.Loaded),
			zap.Int("japaneseSkipped", report.Japanese.Skipped),
			zap.Int("unmatched", report.Merge.Unmatched),
			zap.Int("aligned", report.Aligned),
			zap.Int("written", report.Output.Written),
			zap.Int("writeFailed", report.Output.Failed))
	}
	return err
}

// runExtract enumerates the distinct kanji sequences of the Japanese source
// to hand to the external conversion pass.
func runExtract(cfg config.Config, outPath string, log *zap.Logger) error {
	entries, stats, err := loader.LoadJMdict(cfg.JapaneseSource, log)
	if err != nil {
		return err
	}
	log.Info("japanese source loaded",
		zap.Int("loaded", stats.Loaded), zap.Int("skipped", stats.Skipped))

	seg, err := translit.NewSegmenter()
	if err != nil {
		return fmt.Errorf("build segmenter: %w", err)
	}
	sequences := translit.ExtractSequences(entries, seg)

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, s := range sequences {
		fmt.Fprintln(w, s)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	log.Info("kanji sequences written",
		zap.Int("sequences", len(sequences)), zap.String("path", outPath))
	return nil
}

func runImport(cfg config.Config, tsvPath string, log *zap.Logger) error {
	db, err := translit.Open(cfg.TranslitDB)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := translit.ImportTSV(db, tsvPath)
	if err != nil {
		return err
	}
	log.Info("transliterations imported",
		zap.Int("mappings", n), zap.String("db", cfg.TranslitDB))
	return nil
}
