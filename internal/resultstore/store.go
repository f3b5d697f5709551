// Package resultstore implements the Ownership Result Store of §4.4: a
// mapping DefId -> AdtOwnership with insert_initial/get/update while
// inference is running, frozen into a read-only Frozen handle once the
// four passes complete (§9 "Result Store exposure": downstream
// consumers must not be given a mutator).
package resultstore

import (
	"github.com/kolkov/rlc/internal/ir"
	"github.com/kolkov/rlc/internal/ownership"
)

// AdtOwnership and VariantOwnership are re-exported so callers that
// only ever talk to the Store need not import internal/ownership
// themselves. The dependency runs one way: resultstore imports
// ownership for these types; ownership depends on nothing here —
// it is satisfied by Store structurally, via its own Table interface.
type AdtOwnership = ownership.AdtOwnership

// VariantOwnership is re-exported for the same reason.
type VariantOwnership = ownership.VariantOwnership

// Unowned and NewCarryVector are re-exported constructors used by
// InsertInitial.
const Unowned = ownership.Unowned

// NewCarryVector re-exports ownership.NewCarryVector.
func NewCarryVector(arity int) *ownership.CarryVector { return ownership.NewCarryVector(arity) }

// Store is the mutable working table the Engine's four passes operate
// against. It is owned exclusively by the component running inference
// (§5: "ResultStore is the only mutable shared state; it is owned
// exclusively by the Analyzer's main task, so no locking is needed").
type Store struct {
	entries map[ir.DefID]AdtOwnership
}

// New returns an empty Store.
func New() *Store {
	return &Store{entries: make(map[ir.DefID]AdtOwnership)}
}

// InsertInitial seeds def's entry with variantCount copies of
// (Unowned, zeroed-arity-length vector), per Pass A (§4.3, §4.4).
func (s *Store) InsertInitial(def ir.DefID, variantCount, arity int) {
	entry := make(AdtOwnership, variantCount)
	for i := range entry {
		entry[i] = VariantOwnership{Tag: Unowned, Carry: NewCarryVector(arity)}
	}
	s.entries[def] = entry
}

// Get returns def's current entry, if any.
func (s *Store) Get(def ir.DefID) (AdtOwnership, bool) {
	v, ok := s.entries[def]
	return v, ok
}

// Update replaces def's entry wholesale. Callers are trusted to only
// ever move tags and bits forward per §3's monotonicity invariants;
// Store itself does not re-check monotonicity across an Update (that
// is Tag.Upgrade's and CarryVector.Set's job at the point of mutation).
func (s *Store) Update(def ir.DefID, v AdtOwnership) {
	s.entries[def] = v
}

// Len reports how many DefIds currently have an entry.
func (s *Store) Len() int { return len(s.entries) }

// Freeze returns a read-only handle over the store's current contents
// (§4.4, §9). The Store itself remains usable afterwards — Freeze
// takes a snapshot reference, not a move — but the Engine's own
// lifecycle never touches a Store again after freezing it.
func (s *Store) Freeze() *Frozen {
	return &Frozen{entries: s.entries}
}

// Frozen is the read-only view of a Store handed to downstream
// consumers (the flow-sensitive leakage checker, the -ADT=V printer).
type Frozen struct {
	entries map[ir.DefID]AdtOwnership
}

// Get returns def's classification, if the Worklist ever contained it.
func (f *Frozen) Get(def ir.DefID) (AdtOwnership, bool) {
	v, ok := f.entries[def]
	return v, ok
}

// Len reports how many ADTs were classified.
func (f *Frozen) Len() int { return len(f.entries) }

// All calls yield for every (DefID, AdtOwnership) pair, in the Store's
// natural map iteration order — callers needing a stable order (the
// -ADT=V printer) sort the DefIds themselves.
func (f *Frozen) All(yield func(ir.DefID, AdtOwnership)) {
	for def, v := range f.entries {
		yield(def, v)
	}
}
