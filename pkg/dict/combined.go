package dict

// CombinedEntry groups every Chinese and Japanese entry that shares a join
// key. It always has at least one entry from one language; keys with no
// members are never created.
type CombinedEntry struct {
	// Key is the canonical headword (a traditional-script form, or kana
	// when no kanji mapping exists).
	Key string

	// First-seen entries per language become primary; later arrivals for
	// the same key are appended to the extras, order preserved.
	Chinese      *Entry
	ChineseExtra []*Entry

	Japanese      *Entry
	JapaneseExtra []*Entry

	// Alternates holds Japanese candidates demoted by semantic alignment.
	// They stay attached to the entry rather than being discarded.
	Alternates []*Entry

	// Alignment is set only when candidates were actually re-ranked.
	Alignment *AlignmentResult
}

// AlignmentResult records a re-ranking decision: which Japanese candidate
// won, the similarity that justified it, and who was demoted.
type AlignmentResult struct {
	PrimaryID  string   `json:"primaryId"`
	Score      float64  `json:"score"`
	DemotedIDs []string `json:"demotedIds"`
}

// JapaneseCandidates returns the primary Japanese entry followed by the
// additional ones, in source order. Empty when no Japanese side exists.
func (c *CombinedEntry) JapaneseCandidates() []*Entry {
	if c.Japanese == nil {
		return nil
	}
	out := make([]*Entry, 0, 1+len(c.JapaneseExtra))
	out = append(out, c.Japanese)
	out = append(out, c.JapaneseExtra...)
	return out
}

// Entries returns every entry attached to the combined entry, both
// languages, including extras and alternates.
func (c *CombinedEntry) Entries() []*Entry {
	var out []*Entry
	if c.Chinese != nil {
		out = append(out, c.Chinese)
	}
	out = append(out, c.ChineseExtra...)
	if c.Japanese != nil {
		out = append(out, c.Japanese)
	}
	out = append(out, c.JapaneseExtra...)
	out = append(out, c.Alternates...)
	return out
}

// HasBoth reports whether both languages contributed at least one entry.
func (c *CombinedEntry) HasBoth() bool {
	return c.Chinese != nil && c.Japanese != nil
}
