// Package merge unions Chinese and Japanese entries on a shared key: the
// Traditional-Chinese form, derived from Japanese kanji via the
// transliteration table, falling back to kana.
package merge

import (
	"sort"

	"github.com/Kimeiga/kiokun-data-sub000/pkg/dict"
	"github.com/Kimeiga/kiokun-data-sub000/pkg/translit"
	"go.uber.org/zap"
)

// Stats counts merge outcomes. Unmatched is the number of Japanese entries
// dropped for having no usable join key; ChineseSkipped the Chinese entries
// dropped for lacking a Traditional form.
type Stats struct {
	Keys           int
	ChineseTotal   int
	ChineseSkipped int
	JapaneseTotal  int
	Transliterated int
	KanaFallback   int
	Unmatched      int
}

// Merge builds one CombinedEntry per distinct key. First-seen entries per
// key become primary for their language; later arrivals become additionals,
// order preserved. Deterministic given a fixed input order.
func Merge(chinese, japanese []*dict.Entry, table *translit.Table, log *zap.Logger) (map[string]*dict.CombinedEntry, Stats) {
	if log == nil {
		log = zap.NewNop()
	}
	if table == nil {
		table = translit.NewTable(nil)
	}

	combined := make(map[string]*dict.CombinedEntry)
	var stats Stats

	for _, e := range chinese {
		if e.Traditional == "" {
			stats.ChineseSkipped++
			log.Debug("dropping chinese entry without traditional form",
				zap.String("id", e.ID))
			continue
		}
		stats.ChineseTotal++
		ce, ok := combined[e.Traditional]
		if !ok {
			combined[e.Traditional] = &dict.CombinedEntry{Key: e.Traditional, Chinese: e}
			continue
		}
		if ce.Chinese == nil {
			ce.Chinese = e
		} else {
			ce.ChineseExtra = append(ce.ChineseExtra, e)
		}
	}

	for _, e := range japanese {
		key, how := joinKey(e, table)
		if key == "" {
			stats.Unmatched++
			log.Debug("dropping unmatched japanese entry",
				zap.Error(&dict.UnmatchedEntryError{ID: e.ID}))
			continue
		}
		stats.JapaneseTotal++
		switch how {
		case viaTable:
			stats.Transliterated++
		case viaKana:
			stats.KanaFallback++
		}

		ce, ok := combined[key]
		if !ok {
			combined[key] = &dict.CombinedEntry{Key: key, Japanese: e}
			continue
		}
		if ce.Japanese == nil {
			ce.Japanese = e
		} else {
			ce.JapaneseExtra = append(ce.JapaneseExtra, e)
		}
	}

	stats.Keys = len(combined)
	return combined, stats
}

type keyKind int

const (
	viaTable keyKind = iota
	viaKana
	viaRawKanji
)

// joinKey computes the canonical key for a Japanese entry: transliterate the
// first kanji form; with no mapping fall back to the first kana form
// (hiragana-normalized); with no kana keep the original kanji form. Entries
// with neither kanji nor kana have no key.
func joinKey(e *dict.Entry, table *translit.Table) (string, keyKind) {
	if len(e.Kanji) > 0 {
		if trad, ok := table.Lookup(e.Kanji[0]); ok {
			return trad, viaTable
		}
	}
	if len(e.Kana) > 0 {
		return translit.ToHiragana(e.Kana[0]), viaKana
	}
	if len(e.Kanji) > 0 {
		return e.Kanji[0], viaRawKanji
	}
	return "", 0
}

// SortedKeys returns the combined keys in lexical order so downstream stages
// iterate deterministically.
func SortedKeys(combined map[string]*dict.CombinedEntry) []string {
	keys := make([]string, 0, len(combined))
	for k := range combined {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
