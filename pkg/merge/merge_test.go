package merge

import (
	"testing"

	"github.com/Kimeiga/kiokun-data-sub000/pkg/dict"
	"github.com/Kimeiga/kiokun-data-sub000/pkg/translit"
)

func zhEntry(id, trad string) *dict.Entry {
	return &dict.Entry{
		ID:          id,
		Language:    dict.Chinese,
		Traditional: trad,
		Senses:      []dict.Sense{{Glosses: []string{"gloss"}}},
	}
}

func jaEntry(id string, kanji, kana []string) *dict.Entry {
	return &dict.Entry{
		ID:       id,
		Language: dict.Japanese,
		Kanji:    kanji,
		Kana:     kana,
		Senses:   []dict.Sense{{Glosses: []string{"gloss"}}},
	}
}

func TestMergeFirstSeenWinsPrimary(t *testing.T) {
	chinese := []*dict.Entry{
		zhEntry("zh-1", "頭"),
		zhEntry("zh-2", "頭"),
		zhEntry("zh-3", "貓"),
	}
	combined, stats := Merge(chinese, nil, nil, nil)

	if stats.Keys != 2 {
		t.Fatalf("expected 2 keys, got %d", stats.Keys)
	}
	ce := combined["頭"]
	if ce.Chinese.ID != "zh-1" {
		t.Errorf("primary should be first seen, got %s", ce.Chinese.ID)
	}
	if len(ce.ChineseExtra) != 1 || ce.ChineseExtra[0].ID != "zh-2" {
		t.Errorf("unexpected additional entries: %+v", ce.ChineseExtra)
	}
}

func TestMergeCountsChineseWithoutTraditional(t *testing.T) {
	chinese := []*dict.Entry{
		zhEntry("zh-1", "頭"),
		zhEntry("zh-2", ""),
	}
	combined, stats := Merge(chinese, nil, nil, nil)

	if stats.ChineseSkipped != 1 {
		t.Errorf("expected 1 skipped chinese entry, got %d", stats.ChineseSkipped)
	}
	if stats.ChineseTotal != 1 || stats.Keys != 1 {
		t.Errorf("skipped entry must not be merged: %+v", stats)
	}
	if _, ok := combined[""]; ok {
		t.Error("empty key must never exist")
	}
}

func TestMergeJapaneseViaTransliteration(t *testing.T) {
	table := translit.NewTable(map[string]string{"頭": "頭", "学校": "學校"})
	chinese := []*dict.Entry{zhEntry("zh-1", "頭")}
	japanese := []*dict.Entry{
		jaEntry("ja-1", []string{"頭"}, []string{"あたま"}),
		jaEntry("ja-2", []string{"学校"}, []string{"がっこう"}),
	}

	combined, stats := Merge(chinese, japanese, table, nil)

	if stats.Transliterated != 2 {
		t.Errorf("expected 2 transliterated, got %d", stats.Transliterated)
	}
	ce := combined["頭"]
	if !ce.HasBoth() {
		t.Fatal("頭 should have both languages")
	}
	if ce.Japanese.ID != "ja-1" {
		t.Errorf("unexpected japanese primary: %s", ce.Japanese.ID)
	}
	// 学校 had no Chinese entry: new Japanese-only combined entry keyed by
	// the transliterated form.
	if ce2 := combined["學校"]; ce2 == nil || ce2.Chinese != nil {
		t.Errorf("expected japanese-only entry at 學校, got %+v", ce2)
	}
}

func TestMergeKanaFallbackNormalizesKatakana(t *testing.T) {
	japanese := []*dict.Entry{
		jaEntry("ja-1", nil, []string{"ねこ"}),
		jaEntry("ja-2", nil, []string{"ネコ"}),
	}
	combined, stats := Merge(nil, japanese, nil, nil)

	if stats.KanaFallback != 2 {
		t.Errorf("expected 2 kana fallbacks, got %d", stats.KanaFallback)
	}
	ce := combined["ねこ"]
	if ce == nil {
		t.Fatal("expected katakana and hiragana spellings to share a key")
	}
	if ce.Japanese.ID != "ja-1" || len(ce.JapaneseExtra) != 1 {
		t.Errorf("unexpected attachment order: %+v", ce)
	}
}

func TestMergeRawKanjiFallback(t *testing.T) {
	// Kanji form with no table mapping and no kana keeps its original form.
	japanese := []*dict.Entry{jaEntry("ja-1", []string{"珈琲"}, nil)}
	combined, stats := Merge(nil, japanese, nil, nil)
	if stats.Unmatched != 0 {
		t.Fatalf("entry should not be dropped, stats %+v", stats)
	}
	if combined["珈琲"] == nil {
		t.Error("expected entry keyed by raw kanji form")
	}
}

func TestMergeDropsEntriesWithoutJoinKey(t *testing.T) {
	japanese := []*dict.Entry{
		jaEntry("ja-1", nil, nil),
		jaEntry("ja-2", nil, []string{"いぬ"}),
	}
	combined, stats := Merge(nil, japanese, nil, nil)

	if stats.Unmatched != 1 {
		t.Errorf("expected 1 unmatched, got %d", stats.Unmatched)
	}
	if stats.JapaneseTotal != 1 || len(combined) != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestMergeEveryCombinedEntryHasAMember(t *testing.T) {
	table := translit.NewTable(map[string]string{"頭": "頭"})
	chinese := []*dict.Entry{zhEntry("zh-1", "頭"), zhEntry("zh-2", "貓")}
	japanese := []*dict.Entry{
		jaEntry("ja-1", []string{"頭"}, []string{"あたま"}),
		jaEntry("ja-2", nil, []string{"いぬ"}),
	}
	combined, _ := Merge(chinese, japanese, table, nil)
	for key, ce := range combined {
		if ce.Chinese == nil && ce.Japanese == nil {
			t.Errorf("combined entry %q has no members", key)
		}
	}
}

func TestSortedKeysDeterministic(t *testing.T) {
	combined := map[string]*dict.CombinedEntry{
		"b": {Key: "b"}, "a": {Key: "a"}, "c": {Key: "c"},
	}
	keys := SortedKeys(combined)
	if keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("keys not sorted: %v", keys)
	}
}
