// Package ownership implements the Ownership Inference Engine: the
// four-pass classification of every collected ADT into a direct-heap
// OwnershipTag and a per-generic-parameter CarryVector (§4.3).
package ownership

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Tag is the OwnershipTag of §3: a monotone {Uninit, Unowned, Owned}
// lattice. The zero value is Uninit.
type Tag int

const (
	Uninit Tag = iota
	Unowned
	Owned
)

func (t Tag) String() string {
	switch t {
	case Unowned:
		return "Unowned"
	case Owned:
		return "Owned"
	default:
		return "Uninit"
	}
}

// Upgrade moves t towards target, enforcing invariant 3 of §3 (a Tag
// transitions only Uninit -> Unowned -> Owned, never reverts) at the
// type's single mutation point. Upgrading to a lower tag is a no-op;
// it is never itself an error, since every call site only ever
// proposes a tag it believes is newly justified.
func (t Tag) Upgrade(target Tag) Tag {
	if target > t {
		return target
	}
	return t
}

// CarryVector is the generic-carry bit vector of §3: one bit per
// generic parameter position, set when that parameter is known to be
// propagated raw into a heap-owning position. Bits only ever flip
// false -> true (invariant 5 of §3); CarryVector enforces this by
// never exposing a way to clear a bit.
type CarryVector struct {
	bits *bitset.BitSet
	n    uint
}

// NewCarryVector returns a zeroed vector of the given arity.
func NewCarryVector(arity int) *CarryVector {
	return &CarryVector{bits: bitset.New(uint(arity)), n: uint(arity)}
}

// Len returns the vector's arity.
func (v *CarryVector) Len() int { return int(v.n) }

// Set marks bit i as carrying a raw generic parameter. Out-of-range
// indices are ignored: callers that have already validated i against
// Len may treat Set as infallible.
func (v *CarryVector) Set(i int) {
	if i < 0 || uint(i) >= v.n {
		return
	}
	v.bits.Set(uint(i))
}

// Test reports whether bit i is set.
func (v *CarryVector) Test(i int) bool {
	if i < 0 || uint(i) >= v.n {
		return false
	}
	return v.bits.Test(uint(i))
}

// Union sets every bit in v that is set in other, up to min(Len, other.Len).
func (v *CarryVector) Union(other *CarryVector) {
	if other == nil {
		return
	}
	n := v.n
	if other.n < n {
		n = other.n
	}
	for i := uint(0); i < n; i++ {
		if other.bits.Test(i) {
			v.bits.Set(i)
		}
	}
}

// Clone returns an independent copy.
func (v *CarryVector) Clone() *CarryVector {
	cp := NewCarryVector(int(v.n))
	cp.bits = v.bits.Clone()
	return cp
}

// Bools renders the vector as a []bool, for equality assertions and
// printing.
func (v *CarryVector) Bools() []bool {
	out := make([]bool, v.n)
	for i := uint(0); i < v.n; i++ {
		out[i] = v.bits.Test(i)
	}
	return out
}

func (v *CarryVector) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := uint(0); i < v.n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		if v.bits.Test(i) {
			b.WriteByte('T')
		} else {
			b.WriteByte('F')
		}
	}
	b.WriteByte(']')
	return b.String()
}

// VariantOwnership is the pair (Tag, CarryVector) of §3, one per
// variant of an ADT.
type VariantOwnership struct {
	Tag    Tag
	Carry  *CarryVector
}

func (v VariantOwnership) String() string {
	return fmt.Sprintf("(%s, %s)", v.Tag, v.Carry)
}

// AdtOwnership is the ordered sequence of VariantOwnership, one per
// variant of an ADT, that the Result Store hands out for one DefID.
type AdtOwnership []VariantOwnership

// Equal reports whether a and b hold the same tags and bit patterns —
// used by tests in place of reflect.DeepEqual, which cannot see
// through the bitset.BitSet pointer.
func (a AdtOwnership) Equal(b AdtOwnership) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Tag != b[i].Tag {
			return false
		}
		if a[i].Carry.Len() != b[i].Carry.Len() {
			return false
		}
		av, bv := a[i].Carry.Bools(), b[i].Carry.Bools()
		for j := range av {
			if av[j] != bv[j] {
				return false
			}
		}
	}
	return true
}
