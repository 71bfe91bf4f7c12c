package dict

// Origin tags where a unified definition came from.
type Origin string

const (
	OriginUnified      Origin = "unified"
	OriginChineseOnly  Origin = "chinese-only"
	OriginJapaneseOnly Origin = "japanese-only"
)

// UnifiedDefinition is one definition in a finished record. SourceIDs always
// name at least one entry present in the originating CombinedEntry.
type UnifiedDefinition struct {
	Text       string   `json:"text"`
	Origin     Origin   `json:"origin"`
	Confidence float64  `json:"confidence"`
	SourceIDs  []string `json:"sourceIds"`
	Tags       []string `json:"tags,omitempty"`
	Pinyin     []string `json:"pinyin,omitempty"`
	Kana       []string `json:"kana,omitempty"`
}

// UnifiedRecord is the externally visible unit: one per surviving
// CombinedEntry, written exactly once to exactly one shard, never mutated
// after consolidation.
type UnifiedRecord struct {
	Headword    string   `json:"headword"`
	Traditional string   `json:"traditional,omitempty"`
	Simplified  string   `json:"simplified,omitempty"`
	Kanji       []string `json:"kanji,omitempty"`
	Kana        []string `json:"kana,omitempty"`
	Pinyin      []string `json:"pinyin,omitempty"`

	Definitions []UnifiedDefinition `json:"definitions"`

	// Leftover language-specific entries that did not participate in the
	// primary consolidation.
	ChineseExtra       []*Entry `json:"chineseExtra,omitempty"`
	JapaneseAlternates []*Entry `json:"japaneseAlternates,omitempty"`

	// Provenance.
	ChineseCount   int     `json:"chineseCount"`
	JapaneseCount  int     `json:"japaneseCount"`
	Aligned        bool    `json:"aligned"`
	AlignmentScore float64 `json:"alignmentScore,omitempty"`
}
