// Package shard routes every unified record to exactly one output partition.
// Assignment is a pure function of the headword, so the same headword always
// lands on the same shard across runs; downstream delivery depends on that
// for incremental republishing. Changing the hash or the bucket counts
// invalidates previously published shard locations.
package shard

import (
	"fmt"
	"hash/fnv"
	"unicode"
)

// Plan fixes the bucket counts per Han-character class. The full shard set
// is: one non-Han shard, OneHan + TwoHan + MultiHan hashed shards, and one
// reserved shard kept empty for future growth.
type Plan struct {
	OneHan   int
	TwoHan   int
	MultiHan int
}

// DefaultPlan mirrors the published layout.
var DefaultPlan = Plan{OneHan: 2, TwoHan: 3, MultiHan: 3}

// ID identifies one shard within a plan. The zero ID is the non-Han shard;
// the highest ID is the reserved shard.
type ID int

// Total counts every shard in the plan, reserved included.
func (p Plan) Total() int { return 1 + p.OneHan + p.TwoHan + p.MultiHan + 1 }

// Reserved returns the always-empty shard's ID.
func (p Plan) Reserved() ID { return ID(p.Total() - 1) }

// Valid reports whether every bucket count is positive.
func (p Plan) Valid() bool {
	return p.OneHan > 0 && p.TwoHan > 0 && p.MultiHan > 0
}

// Assign maps a headword to its shard: classify by Han-character count, then
// pick a bucket inside the class by stable hash. Pure and deterministic.
func (p Plan) Assign(headword string) ID {
	n := HanCount(headword)
	if n == 0 {
		return 0
	}
	h := Hash(headword)
	switch n {
	case 1:
		return ID(1 + h%uint32(p.OneHan))
	case 2:
		return ID(1 + p.OneHan + int(h%uint32(p.TwoHan)))
	default:
		return ID(1 + p.OneHan + p.TwoHan + int(h%uint32(p.MultiHan)))
	}
}

// Name returns the shard's stable directory name.
func (p Plan) Name(id ID) string {
	switch {
	case id == 0:
		return "non-han"
	case int(id) <= p.OneHan:
		return fmt.Sprintf("han-1-%d", int(id)-1)
	case int(id) <= p.OneHan+p.TwoHan:
		return fmt.Sprintf("han-2-%d", int(id)-1-p.OneHan)
	case int(id) <= p.OneHan+p.TwoHan+p.MultiHan:
		return fmt.Sprintf("han-3plus-%d", int(id)-1-p.OneHan-p.TwoHan)
	default:
		return "reserved"
	}
}

// Names lists every shard directory name in ID order, reserved last.
func (p Plan) Names() []string {
	names := make([]string, p.Total())
	for i := range names {
		names[i] = p.Name(ID(i))
	}
	return names
}

// Find resolves a shard name back to its ID.
func (p Plan) Find(name string) (ID, bool) {
	for i := 0; i < p.Total(); i++ {
		if p.Name(ID(i)) == name {
			return ID(i), true
		}
	}
	return 0, false
}

// HanCount counts the CJK ideographs in s.
func HanCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			n++
		}
	}
	return n
}

// Hash is the stable string hash used for bucket selection (FNV-1a).
func Hash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
