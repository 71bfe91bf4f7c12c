package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Kimeiga/kiokun-data-sub000/pkg/dict"
	"go.uber.org/zap"
)

// Stats counts what a loader saw. Skipped records are never silent.
type Stats struct {
	Loaded  int
	Skipped int
}

// LoadCEDICT reads a line-delimited Chinese dictionary in CC-CEDICT format:
//
//	TRADITIONAL SIMPLIFIED [pin1 yin1] /gloss/gloss/
//
// Lines beginning with # are comments. A line that does not fit the shape is
// skipped and counted, not fatal.
func LoadCEDICT(path string, log *zap.Logger) ([]*dict.Entry, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open chinese source: %w", err)
	}
	defer f.Close()
	return ParseCEDICT(f, log)
}

// ParseCEDICT parses CC-CEDICT records from r. See LoadCEDICT.
func ParseCEDICT(r io.Reader, log *zap.Logger) ([]*dict.Entry, Stats, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var (
		entries []*dict.Entry
		stats   Stats
		lineNo  int
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseCEDICTLine(line, lineNo)
		if err != nil {
			stats.Skipped++
			log.Debug("skipping malformed chinese record", zap.Error(err))
			continue
		}
		entries = append(entries, entry)
		stats.Loaded++
	}
	if err := sc.Err(); err != nil {
		return entries, stats, fmt.Errorf("read chinese source: %w", err)
	}
	return entries, stats, nil
}

func parseCEDICTLine(line string, lineNo int) (*dict.Entry, error) {
	malformed := func(reason string) error {
		return &dict.MalformedRecordError{Source: "cedict", Line: lineNo, Reason: reason}
	}

	// Headwords: "TRAD SIMP " up to the pinyin bracket.
	lb := strings.IndexByte(line, '[')
	rb := strings.IndexByte(line, ']')
	if lb < 0 || rb < lb {
		return nil, malformed("missing pinyin brackets")
	}

	heads := strings.Fields(strings.TrimSpace(line[:lb]))
	if len(heads) != 2 {
		return nil, malformed(fmt.Sprintf("expected 2 headword forms, got %d", len(heads)))
	}

	pinyin := strings.Fields(line[lb+1 : rb])

	rest := strings.TrimSpace(line[rb+1:])
	if len(rest) < 2 || rest[0] != '/' || rest[len(rest)-1] != '/' {
		return nil, malformed("definitions not slash-delimited")
	}
	var glosses []string
	for _, g := range strings.Split(rest[1:len(rest)-1], "/") {
		if g = strings.TrimSpace(g); g != "" {
			glosses = append(glosses, g)
		}
	}
	if len(glosses) == 0 {
		return nil, malformed("no definitions")
	}

	return &dict.Entry{
		ID:          fmt.Sprintf("cedict-%d", lineNo),
		Language:    dict.Chinese,
		Traditional: heads[0],
		Simplified:  heads[1],
		Pinyin:      pinyin,
		Senses:      []dict.Sense{{Glosses: glosses}},
	}, nil
}
