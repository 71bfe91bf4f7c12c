package translit

import (
	"sort"
	"strings"
	"unicode"

	"github.com/Kimeiga/kiokun-data-sub000/pkg/dict"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Segmenter splits multi-word kanji forms into lexical units so the external
// conversion pass also covers the component words, not just whole headwords.
type Segmenter struct {
	t *tokenizer.Tokenizer
}

// NewSegmenter builds a kagome/IPA segmenter.
func NewSegmenter() (*Segmenter, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Segmenter{t: t}, nil
}

// Segment returns the surface forms of the lexical units in text.
func (s *Segmenter) Segment(text string) []string {
	var out []string
	for _, tok := range s.t.Tokenize(text) {
		if tok.Class == tokenizer.DUMMY {
			continue
		}
		if surf := strings.TrimSpace(tok.Surface); surf != "" {
			out = append(out, surf)
		}
	}
	return out
}

// ExtractSequences enumerates the distinct kanji sequences found in the
// Japanese source: every contiguous Han run in every kanji form, plus (when a
// segmenter is provided) the Han runs of each lexical unit of multi-unit
// forms. The result is sorted for deterministic batching.
func ExtractSequences(entries []*dict.Entry, seg *Segmenter) []string {
	seen := make(map[string]struct{})

	add := func(text string) {
		for _, run := range hanRuns(text) {
			seen[run] = struct{}{}
		}
	}

	for _, e := range entries {
		for _, form := range e.Kanji {
			add(form)
			if seg != nil && len([]rune(form)) > 1 {
				for _, unit := range seg.Segment(form) {
					add(unit)
				}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// hanRuns returns the maximal contiguous runs of Han ideographs in s.
func hanRuns(s string) []string {
	var (
		runs []string
		cur  []rune
	)
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			cur = append(cur, r)
			continue
		}
		if len(cur) > 0 {
			runs = append(runs, string(cur))
			cur = cur[:0]
		}
	}
	if len(cur) > 0 {
		runs = append(runs, string(cur))
	}
	return runs
}
