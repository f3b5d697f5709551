package resultstore_test

import (
	"testing"

	"github.com/kolkov/rlc/internal/ir"
	"github.com/kolkov/rlc/internal/resultstore"
)

func TestInsertInitialSeedsUnownedZeroedVector(t *testing.T) {
	s := resultstore.New()
	def := ir.DefID(1)

	s.InsertInitial(def, 2, 3)

	got, ok := s.Get(def)
	if !ok {
		t.Fatalf("Get(%v) missing after InsertInitial", def)
	}
	if len(got) != 2 {
		t.Fatalf("variant count = %d, want 2", len(got))
	}
	for i, v := range got {
		if v.Tag != resultstore.Unowned {
			t.Errorf("variant %d tag = %v, want Unowned", i, v.Tag)
		}
		if v.Carry.Len() != 3 {
			t.Errorf("variant %d carry len = %d, want 3", i, v.Carry.Len())
		}
		for _, b := range v.Carry.Bools() {
			if b {
				t.Errorf("variant %d carry not all-false: %s", i, v.Carry)
			}
		}
	}
}

func TestUpdateOverwritesEntry(t *testing.T) {
	s := resultstore.New()
	def := ir.DefID(1)
	s.InsertInitial(def, 1, 1)

	entry, _ := s.Get(def)
	entry[0].Carry.Set(0)
	s.Update(def, entry)

	got, _ := s.Get(def)
	if !got[0].Carry.Test(0) {
		t.Fatal("Update did not persist the mutated carry vector")
	}
}

func TestFreezeSnapshotsCurrentEntries(t *testing.T) {
	s := resultstore.New()
	def := ir.DefID(7)
	s.InsertInitial(def, 1, 0)

	frozen := s.Freeze()
	if frozen.Len() != 1 {
		t.Fatalf("Frozen.Len() = %d, want 1", frozen.Len())
	}
	if _, ok := frozen.Get(ir.DefID(99)); ok {
		t.Fatal("Frozen.Get found an entry that was never inserted")
	}

	seen := map[ir.DefID]bool{}
	frozen.All(func(d ir.DefID, _ resultstore.AdtOwnership) { seen[d] = true })
	if !seen[def] {
		t.Fatalf("Frozen.All did not visit %v", def)
	}
}
