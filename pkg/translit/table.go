// Package translit holds the precomputed kanji to Traditional-Chinese
// transliteration table. The table is built once by an external conversion
// pass, persisted in SQLite, and treated as read-only by the pipeline, so it
// is safe to share across stages without locking.
package translit

// Table maps Japanese kanji sequences to their Traditional-Chinese
// equivalents. A missing key is a defined "no mapping" result, not an error;
// callers fall back to kana or to the original kanji form.
type Table struct {
	m map[string]string
}

// NewTable wraps m in a read-only Table. The caller must not mutate m
// afterwards.
func NewTable(m map[string]string) *Table {
	if m == nil {
		m = map[string]string{}
	}
	return &Table{m: m}
}

// Lookup returns the Traditional-Chinese form for a kanji sequence.
func (t *Table) Lookup(kanji string) (string, bool) {
	v, ok := t.m[kanji]
	return v, ok
}

// Len reports the number of mappings.
func (t *Table) Len() int { return len(t.m) }
