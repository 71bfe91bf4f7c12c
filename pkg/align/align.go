// Package align re-ranks multiple Japanese candidate entries against the
// Chinese gloss of a combined entry so that the most semantically similar
// candidate becomes primary, instead of whichever happened to merge first.
package align

import (
	"strings"
	"unicode"

	"github.com/Kimeiga/kiokun-data-sub000/pkg/dict"
	"go.uber.org/zap"
)

// Pairwise token scores.
const (
	scoreExact     = 1.0
	scoreSubstring = 0.7
	scoreCategory  = 0.5
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "to": {}, "of": {}, "in": {}, "on": {},
	"at": {}, "for": {}, "or": {}, "and": {}, "with": {}, "by": {},
	"be": {}, "is": {}, "are": {}, "etc": {}, "esp": {}, "eg": {},
	"ie": {}, "sth": {}, "sb": {}, "one's": {}, "something": {}, "someone": {},
}

// Scorer computes gloss similarity. Read-only after construction; safe to
// share across goroutines.
type Scorer struct {
	categories map[string]string
	log        *zap.Logger
}

// NewScorer builds a scorer with the embedded semantic category table.
func NewScorer(log *zap.Logger) (*Scorer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cats, err := loadCategories()
	if err != nil {
		return nil, err
	}
	return &Scorer{categories: cats, log: log}, nil
}

// Tokenize normalizes a gloss: lowercase, punctuation stripped, whitespace
// split, stop words dropped.
func Tokenize(gloss string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(gloss) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	var tokens []string
	for _, t := range strings.Fields(b.String()) {
		if _, stop := stopWords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// Similarity scores two token lists in [0,1]: the sum of pairwise token
// scores normalized by the number of token-pair comparisons. Either side
// empty yields a defined 0.
func (s *Scorer) Similarity(ja, zh []string) float64 {
	if len(ja) == 0 || len(zh) == 0 {
		return 0
	}
	var sum float64
	for _, jt := range ja {
		for _, zt := range zh {
			sum += s.tokenScore(jt, zt)
		}
	}
	return sum / float64(len(ja)*len(zh))
}

func (s *Scorer) tokenScore(a, b string) float64 {
	if a == b {
		return scoreExact
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return scoreSubstring
	}
	ca, okA := s.categories[a]
	cb, okB := s.categories[b]
	if okA && okB && ca == cb {
		return scoreCategory
	}
	return 0
}

// glossTokens flattens and tokenizes every gloss of an entry.
func glossTokens(e *dict.Entry) []string {
	var tokens []string
	for _, g := range e.Glosses() {
		tokens = append(tokens, Tokenize(g)...)
	}
	return tokens
}

// Align re-ranks the Japanese candidates of ce in place. It is a no-op
// unless ce has at least two Japanese candidates and a Chinese gloss to
// score against; Japanese-only entries keep their first-seen primary. The
// winning candidate becomes primary, the rest move to the alternates list,
// and the decision is recorded on ce.Alignment. Returns true when a
// re-ranking happened.
func (s *Scorer) Align(ce *dict.CombinedEntry) bool {
	candidates := ce.JapaneseCandidates()
	if len(candidates) < 2 || ce.Chinese == nil {
		return false
	}
	zh := glossTokens(ce.Chinese)
	if len(zh) == 0 {
		return false
	}

	best, bestScore := 0, s.Similarity(glossTokens(candidates[0]), zh)
	for i := 1; i < len(candidates); i++ {
		score := s.Similarity(glossTokens(candidates[i]), zh)
		// Strict > keeps ties on the earlier candidate (source order).
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	result := &dict.AlignmentResult{
		PrimaryID: candidates[best].ID,
		Score:     bestScore,
	}
	ce.Japanese = candidates[best]
	ce.JapaneseExtra = nil
	for i, c := range candidates {
		if i == best {
			continue
		}
		ce.Alternates = append(ce.Alternates, c)
		result.DemotedIDs = append(result.DemotedIDs, c.ID)
	}
	ce.Alignment = result

	s.log.Debug("aligned entry",
		zap.String("key", ce.Key),
		zap.String("primary", result.PrimaryID),
		zap.Float64("score", result.Score),
		zap.Int("demoted", len(result.DemotedIDs)))
	return true
}

// AlignAll runs Align over every combined entry and returns the number
// re-ranked.
func (s *Scorer) AlignAll(combined map[string]*dict.CombinedEntry) int {
	n := 0
	for _, ce := range combined {
		if s.Align(ce) {
			n++
		}
	}
	return n
}
