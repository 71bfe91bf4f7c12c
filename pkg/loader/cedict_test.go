package loader

import (
	"strings"
	"testing"

	"github.com/Kimeiga/kiokun-data-sub000/pkg/dict"
)

func TestParseCEDICT(t *testing.T) {
	src := strings.Join([]string{
		"# CC-CEDICT sample",
		"頭 头 [tou2] /head/chief/",
		"貓 猫 [mao1] /cat/",
		"",
	}, "\n")

	entries, stats, err := ParseCEDICT(strings.NewReader(src), nil)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if stats.Loaded != 2 || stats.Skipped != 0 {
		t.Fatalf("expected 2 loaded, 0 skipped, got %+v", stats)
	}

	e := entries[0]
	if e.Language != dict.Chinese {
		t.Errorf("expected chinese language, got %q", e.Language)
	}
	if e.Traditional != "頭" || e.Simplified != "头" {
		t.Errorf("unexpected headwords: %q / %q", e.Traditional, e.Simplified)
	}
	if len(e.Pinyin) != 1 || e.Pinyin[0] != "tou2" {
		t.Errorf("unexpected pinyin: %v", e.Pinyin)
	}
	got := e.Glosses()
	if len(got) != 2 || got[0] != "head" || got[1] != "chief" {
		t.Errorf("unexpected glosses: %v", got)
	}
}

func TestParseCEDICTSkipsMalformed(t *testing.T) {
	src := strings.Join([]string{
		"頭 头 [tou2] /head/",
		"no brackets here /oops/",
		"頭 头 [tou2] missing slashes",
		"頭 头 extra 三 [tou2] /too many forms/",
		"貓 猫 [mao1] /cat/",
	}, "\n")

	entries, stats, err := ParseCEDICT(strings.NewReader(src), nil)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if stats.Loaded != 2 {
		t.Errorf("expected 2 loaded, got %d", stats.Loaded)
	}
	if stats.Skipped != 3 {
		t.Errorf("expected 3 skipped, got %d", stats.Skipped)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestParseCEDICTEntryIDsAreUnique(t *testing.T) {
	src := "頭 头 [tou2] /head/\n貓 猫 [mao1] /cat/\n"
	entries, _, err := ParseCEDICT(strings.NewReader(src), nil)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if entries[0].ID == entries[1].ID {
		t.Errorf("entry ids collide: %q", entries[0].ID)
	}
}
