package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Kimeiga/kiokun-data-sub000/pkg/dict"
	"go.uber.org/zap"
)

// jmdictEntry matches the structure of jmdict-simplified entries.
type jmdictEntry struct {
	Id    string          `json:"id"`
	Kanji []jmdictElement `json:"kanji"`
	Kana  []jmdictElement `json:"kana"`
	Sense []jmdictSense   `json:"sense"`
}

type jmdictElement struct {
	Text   string   `json:"text"`
	Common bool     `json:"common"`
	Tags   []string `json:"tags"`
}

type jmdictSense struct {
	PartOfSpeech []string      `json:"partOfSpeech"`
	Gloss        []jmdictGloss `json:"gloss"`
}

type jmdictGloss struct {
	Text string `json:"text"`
	Lang string `json:"lang"` // defaults to 'eng' if missing
}

// LoadJMdict reads a jmdict-simplified JSON document, either the full object
// wrapper { "words": [...] } or a bare array. Entries missing an id or every
// surface form are skipped and counted.
func LoadJMdict(path string, log *zap.Logger) ([]*dict.Entry, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open japanese source: %w", err)
	}
	defer f.Close()
	return ParseJMdict(f, log)
}

// ParseJMdict parses a jmdict-simplified document from r. See LoadJMdict.
func ParseJMdict(r io.ReadSeeker, log *zap.Logger) ([]*dict.Entry, Stats, error) {
	if log == nil {
		log = zap.NewNop()
	}

	raw, err := decodeJMdict(r)
	if err != nil {
		return nil, Stats{}, err
	}

	var (
		entries []*dict.Entry
		stats   Stats
	)
	for i, e := range raw {
		entry, err := convertJMdictEntry(e, i)
		if err != nil {
			stats.Skipped++
			log.Debug("skipping malformed japanese record", zap.Error(err))
			continue
		}
		entries = append(entries, entry)
		stats.Loaded++
	}
	return entries, stats, nil
}

func decodeJMdict(r io.ReadSeeker) ([]jmdictEntry, error) {
	// Try the full object wrapper first { "words": [...] }. A pointer
	// distinguishes a present-but-empty words array from a missing key, so
	// an empty dictionary decodes to zero entries instead of falling
	// through to the array attempt.
	var wrapper struct {
		Words *[]jmdictEntry `json:"words"`
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&wrapper); err == nil && wrapper.Words != nil {
		return *wrapper.Words, nil
	}

	// Reset and try as array [...].
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	var raw []jmdictEntry
	dec = json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse japanese source as object or array: %w", err)
	}
	return raw, nil
}

func convertJMdictEntry(e jmdictEntry, index int) (*dict.Entry, error) {
	malformed := func(reason string) error {
		return &dict.MalformedRecordError{Source: "jmdict", Line: index, Reason: reason}
	}
	if e.Id == "" {
		return nil, malformed("missing id")
	}
	if len(e.Kanji) == 0 && len(e.Kana) == 0 {
		return nil, malformed("no surface forms")
	}

	entry := &dict.Entry{
		ID:       "jmdict-" + e.Id,
		Language: dict.Japanese,
	}
	for _, k := range e.Kanji {
		if k.Text != "" {
			entry.Kanji = append(entry.Kanji, k.Text)
		}
	}
	for _, k := range e.Kana {
		if k.Text != "" {
			entry.Kana = append(entry.Kana, k.Text)
		}
	}
	for _, s := range e.Sense {
		sense := dict.Sense{Tags: s.PartOfSpeech}
		for _, g := range s.Gloss {
			// Non-English glosses exist in the full dumps; the
			// alignment scoring only understands English.
			if g.Lang != "" && g.Lang != "eng" {
				continue
			}
			if g.Text != "" {
				sense.Glosses = append(sense.Glosses, g.Text)
			}
		}
		if len(sense.Glosses) > 0 {
			entry.Senses = append(entry.Senses, sense)
		}
	}
	return entry, nil
}
