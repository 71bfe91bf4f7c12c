package output

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Kimeiga/kiokun-data-sub000/pkg/dict"
	"github.com/Kimeiga/kiokun-data-sub000/pkg/shard"
)

func record(headword string) *dict.UnifiedRecord {
	return &dict.UnifiedRecord{
		Headword: headword,
		Definitions: []dict.UnifiedDefinition{
			{Text: "x", Origin: dict.OriginChineseOnly, Confidence: 0.7, SourceIDs: []string{"zh-1"}},
		},
	}
}

func TestWriteAllRoutesEachRecordToOneShard(t *testing.T) {
	dir := t.TempDir()
	plan := shard.DefaultPlan
	w := NewWriter(dir, plan, 4, nil)

	records := []*dict.UnifiedRecord{
		record("頭"), record("学校"), record("一二三"), record("hello"),
	}
	report, err := w.WriteAll(context.Background(), records)
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if report.Written != len(records) || report.Failed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	// Every shard directory exists, reserved included and empty.
	for _, name := range plan.Names() {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || !info.IsDir() {
			t.Fatalf("missing shard dir %s: %v", name, err)
		}
	}
	reservedEntries, _ := os.ReadDir(filepath.Join(dir, plan.Name(plan.Reserved())))
	if len(reservedEntries) != 0 {
		t.Errorf("reserved shard must stay empty, found %d files", len(reservedEntries))
	}

	// Each record appears exactly once across all shards, in its assigned
	// shard.
	for _, rec := range records {
		found := 0
		for _, name := range plan.Names() {
			path := filepath.Join(dir, name, Filename(rec.Headword))
			if _, err := os.Stat(path); err == nil {
				found++
				if want := plan.Name(plan.Assign(rec.Headword)); name != want {
					t.Errorf("%q written to %s, assigned %s", rec.Headword, name, want)
				}
			}
		}
		if found != 1 {
			t.Errorf("%q found in %d shards, want exactly 1", rec.Headword, found)
		}
	}
}

func TestWriteAllRecordBody(t *testing.T) {
	dir := t.TempDir()
	plan := shard.DefaultPlan
	w := NewWriter(dir, plan, 1, nil)

	rec := record("頭")
	rec.Traditional = "頭"
	rec.Pinyin = []string{"tou2"}
	if _, err := w.WriteAll(context.Background(), []*dict.UnifiedRecord{rec}); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	path := filepath.Join(dir, plan.Name(plan.Assign("頭")), Filename("頭"))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	var got dict.UnifiedRecord
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	if got.Headword != "頭" || got.Traditional != "頭" || len(got.Definitions) != 1 {
		t.Errorf("unexpected record body: %+v", got)
	}
}

func TestWriteAllCountsFailures(t *testing.T) {
	dir := t.TempDir()
	plan := shard.DefaultPlan
	w := NewWriter(dir, plan, 2, nil)
	w.Retries = 2

	// A headword this long escapes to a filename past the filesystem's
	// name limit, so every write attempt fails.
	blocked := record(strings.Repeat("a", 300))

	report, err := w.WriteAll(context.Background(), []*dict.UnifiedRecord{blocked, record("頭")})
	if err == nil {
		t.Fatal("expected an error reporting failed records")
	}
	if report.Failed != 1 {
		t.Errorf("expected 1 failed, got %d", report.Failed)
	}
	if report.Written != 1 {
		t.Errorf("run must continue past a failed record, written = %d", report.Written)
	}
}

func TestWriteAllRebuildsShardDirs(t *testing.T) {
	dir := t.TempDir()
	plan := shard.DefaultPlan
	w := NewWriter(dir, plan, 2, nil)

	if _, err := w.WriteAll(context.Background(), []*dict.UnifiedRecord{record("hello")}); err != nil {
		t.Fatalf("first WriteAll: %v", err)
	}
	if _, err := w.WriteAll(context.Background(), []*dict.UnifiedRecord{record("world")}); err != nil {
		t.Fatalf("second WriteAll: %v", err)
	}

	nonHan := filepath.Join(dir, plan.Name(plan.Assign("hello")))
	if _, err := os.Stat(filepath.Join(nonHan, Filename("hello"))); !os.IsNotExist(err) {
		t.Errorf("record from the previous run survived the rebuild: %v", err)
	}
	if _, err := os.Stat(filepath.Join(nonHan, Filename("world"))); err != nil {
		t.Errorf("current run's record missing: %v", err)
	}
}

func TestWriteAllSingleShardLeavesOthersAlone(t *testing.T) {
	dir := t.TempDir()
	plan := shard.DefaultPlan
	w := NewWriter(dir, plan, 2, nil)

	if _, err := w.WriteAll(context.Background(), []*dict.UnifiedRecord{record("hello"), record("頭")}); err != nil {
		t.Fatalf("full WriteAll: %v", err)
	}

	// A partial build owning only 頭's shard must rebuild that shard and
	// leave the non-Han shard's output untouched.
	hanShard := plan.Name(plan.Assign("頭"))
	sw := NewWriter(dir, plan, 2, nil)
	sw.Only = hanShard
	if _, err := sw.WriteAll(context.Background(), []*dict.UnifiedRecord{record("頭")}); err != nil {
		t.Fatalf("single-shard WriteAll: %v", err)
	}

	nonHan := plan.Name(plan.Assign("hello"))
	if _, err := os.Stat(filepath.Join(dir, nonHan, Filename("hello"))); err != nil {
		t.Errorf("non-owned shard's record must survive a partial build: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, hanShard, Filename("頭"))); err != nil {
		t.Errorf("owned shard's record missing: %v", err)
	}

	sw.Only = "no-such-shard"
	if _, err := sw.WriteAll(context.Background(), nil); err == nil {
		t.Error("expected an error for an unknown shard name")
	}
}

func TestFilenameIsFilesystemSafe(t *testing.T) {
	cases := []string{"頭", "A/B", "..", "a b", "ねこ/いぬ"}
	for _, h := range cases {
		name := Filename(h)
		if filepath.Base(name) != name {
			t.Errorf("Filename(%q) = %q contains a path separator", h, name)
		}
	}
	if Filename("頭") == Filename("貓") {
		t.Error("distinct headwords must map to distinct filenames")
	}
}
