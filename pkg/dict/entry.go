package dict

// Language identifies which source dictionary an entry came from.
type Language string

const (
	Chinese  Language = "zh"
	Japanese Language = "ja"
)

// Sense is one distinct meaning of a headword.
type Sense struct {
	Glosses []string `json:"glosses"`
	Tags    []string `json:"tags,omitempty"`
}

// Entry is a single dictionary entry as produced by a source loader.
// Entries are immutable once loaded; later stages only read them.
type Entry struct {
	ID       string   `json:"id"`
	Language Language `json:"language"`

	// Chinese fields. Traditional is the join key for the merge.
	Traditional string   `json:"traditional,omitempty"`
	Simplified  string   `json:"simplified,omitempty"`
	Pinyin      []string `json:"pinyin,omitempty"`

	// Japanese fields. Kanji forms are transliterated to Traditional
	// Chinese for the join; Kana forms are the fallback key.
	Kanji []string `json:"kanji,omitempty"`
	Kana  []string `json:"kana,omitempty"`

	Senses []Sense `json:"senses"`
}

// Headword returns the entry's primary surface form.
func (e *Entry) Headword() string {
	switch e.Language {
	case Chinese:
		return e.Traditional
	case Japanese:
		if len(e.Kanji) > 0 {
			return e.Kanji[0]
		}
		if len(e.Kana) > 0 {
			return e.Kana[0]
		}
	}
	return ""
}

// Glosses flattens every gloss of every sense, in source order.
func (e *Entry) Glosses() []string {
	var out []string
	for _, s := range e.Senses {
		out = append(out, s.Glosses...)
	}
	return out
}
