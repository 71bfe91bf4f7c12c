package loader

import (
	"strings"
	"testing"
)

const jmdictSample = `{
  "words": [
    {
      "id": "1000001",
      "kanji": [{"text": "頭", "common": true}],
      "kana": [{"text": "あたま", "common": true}],
      "sense": [{"partOfSpeech": ["n"], "gloss": [{"text": "head", "lang": "eng"}]}]
    },
    {
      "id": "1000002",
      "kanji": [],
      "kana": [{"text": "ねこ"}],
      "sense": [{"gloss": [{"text": "cat"}, {"text": "chat", "lang": "fre"}]}]
    },
    {
      "id": "",
      "kana": [{"text": "broken"}],
      "sense": []
    }
  ]
}`

func TestParseJMdictWrapper(t *testing.T) {
	entries, stats, err := ParseJMdict(strings.NewReader(jmdictSample), nil)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if stats.Loaded != 2 || stats.Skipped != 1 {
		t.Fatalf("expected 2 loaded, 1 skipped, got %+v", stats)
	}

	e := entries[0]
	if e.ID != "jmdict-1000001" {
		t.Errorf("unexpected id %q", e.ID)
	}
	if len(e.Kanji) != 1 || e.Kanji[0] != "頭" {
		t.Errorf("unexpected kanji: %v", e.Kanji)
	}
	if len(e.Senses) != 1 || e.Senses[0].Glosses[0] != "head" {
		t.Errorf("unexpected senses: %+v", e.Senses)
	}
	if e.Senses[0].Tags[0] != "n" {
		t.Errorf("expected pos tag carried over, got %v", e.Senses[0].Tags)
	}
}

func TestParseJMdictArrayForm(t *testing.T) {
	src := `[{"id": "42", "kana": [{"text": "いぬ"}], "sense": [{"gloss": [{"text": "dog"}]}]}]`
	entries, stats, err := ParseJMdict(strings.NewReader(src), nil)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if stats.Loaded != 1 {
		t.Fatalf("expected 1 loaded, got %+v", stats)
	}
	if entries[0].ID != "jmdict-42" {
		t.Errorf("unexpected id %q", entries[0].ID)
	}
}

func TestParseJMdictDropsNonEnglishGlosses(t *testing.T) {
	entries, _, err := ParseJMdict(strings.NewReader(jmdictSample), nil)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	cat := entries[1]
	if got := cat.Glosses(); len(got) != 1 || got[0] != "cat" {
		t.Errorf("expected only english gloss, got %v", got)
	}
}

func TestParseJMdictEmptyWrapper(t *testing.T) {
	entries, stats, err := ParseJMdict(strings.NewReader(`{"words": []}`), nil)
	if err != nil {
		t.Fatalf("an empty dictionary is valid input: %v", err)
	}
	if len(entries) != 0 || stats.Loaded != 0 || stats.Skipped != 0 {
		t.Errorf("expected zero entries, got %d (stats %+v)", len(entries), stats)
	}
}

func TestParseJMdictGarbage(t *testing.T) {
	if _, _, err := ParseJMdict(strings.NewReader("not json"), nil); err == nil {
		t.Fatal("expected error for unparseable document")
	}
}
