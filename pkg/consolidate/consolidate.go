// Package consolidate builds the ordered unified definition list for an
// aligned combined entry and produces the final immutable UnifiedRecord.
package consolidate

import (
	"strings"

	"github.com/Kimeiga/kiokun-data-sub000/pkg/dict"
)

// Confidence values by origin.
const (
	confidenceUnified = 0.9
	confidenceSingle  = 0.7
)

// candidate is one definition pulled from a primary entry before merging.
type candidate struct {
	text     string
	entryID  string
	tags     []string
	consumed bool
}

// normalize is the merge-equality form of a definition: case-insensitive,
// surrounding space ignored.
func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func collect(e *dict.Entry) []candidate {
	if e == nil {
		return nil
	}
	var out []candidate
	for _, s := range e.Senses {
		for _, g := range s.Glosses {
			out = append(out, candidate{text: g, entryID: e.ID, tags: s.Tags})
		}
	}
	return out
}

// Consolidate walks a combined entry after alignment and emits the unified
// record. Definitions whose normalized text matches across languages merge
// into one "unified" definition carrying both source ids; everything else
// survives as chinese-only or japanese-only. Emission order: unified (in
// Chinese source order), then Chinese leftovers, then Japanese leftovers.
func Consolidate(ce *dict.CombinedEntry) *dict.UnifiedRecord {
	rec := &dict.UnifiedRecord{
		Headword:           ce.Key,
		ChineseExtra:       ce.ChineseExtra,
		JapaneseAlternates: ce.Alternates,
	}

	if ce.Chinese != nil {
		rec.Traditional = ce.Chinese.Traditional
		rec.Simplified = ce.Chinese.Simplified
		rec.Pinyin = ce.Chinese.Pinyin
		rec.ChineseCount = 1 + len(ce.ChineseExtra)
	}
	if ce.Japanese != nil {
		rec.Kanji = ce.Japanese.Kanji
		rec.Kana = ce.Japanese.Kana
		rec.JapaneseCount = 1 + len(ce.JapaneseExtra) + len(ce.Alternates)
	}
	if ce.Alignment != nil {
		rec.Aligned = true
		rec.AlignmentScore = ce.Alignment.Score
	}

	zh := collect(ce.Chinese)
	ja := collect(ce.Japanese)

	// Cross-language merge: each Chinese definition pairs with the first
	// unconsumed Japanese definition of identical normalized text.
	for i := range zh {
		for j := range ja {
			if ja[j].consumed {
				continue
			}
			if normalize(zh[i].text) != normalize(ja[j].text) {
				continue
			}
			zh[i].consumed = true
			ja[j].consumed = true
			rec.Definitions = append(rec.Definitions, dict.UnifiedDefinition{
				Text:       zh[i].text,
				Origin:     dict.OriginUnified,
				Confidence: confidenceUnified,
				SourceIDs:  []string{zh[i].entryID, ja[j].entryID},
				Tags:       ja[j].tags,
				Pinyin:     rec.Pinyin,
				Kana:       rec.Kana,
			})
			break
		}
	}

	for i := range zh {
		if zh[i].consumed {
			continue
		}
		rec.Definitions = append(rec.Definitions, dict.UnifiedDefinition{
			Text:       zh[i].text,
			Origin:     dict.OriginChineseOnly,
			Confidence: confidenceSingle,
			SourceIDs:  []string{zh[i].entryID},
			Pinyin:     rec.Pinyin,
		})
	}
	for j := range ja {
		if ja[j].consumed {
			continue
		}
		rec.Definitions = append(rec.Definitions, dict.UnifiedDefinition{
			Text:       ja[j].text,
			Origin:     dict.OriginJapaneseOnly,
			Confidence: confidenceSingle,
			SourceIDs:  []string{ja[j].entryID},
			Tags:       ja[j].tags,
			Kana:       rec.Kana,
		})
	}

	return rec
}
