package ownership

import "github.com/kolkov/rlc/internal/ir"

// Table is the narrow slice of the Ownership Result Store (§4.4) the
// four passes need while the worklist is still being processed: seed
// an entry, read it back, and write the updated one. internal/resultstore.Store
// satisfies this without resultstore and ownership ever importing each other —
// resultstore depends on ownership for AdtOwnership, not the reverse.
type Table interface {
	InsertInitial(def ir.DefID, variantCount, arity int)
	Get(def ir.DefID) (AdtOwnership, bool)
	Update(def ir.DefID, v AdtOwnership)
}
