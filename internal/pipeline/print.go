package pipeline

import (
	"fmt"
	"io"
	"sort"

	"github.com/kolkov/rlc/internal/ir"
	"github.com/kolkov/rlc/internal/resultstore"
)

// PrintTypeMap renders report's collected type map to w, one line per
// reachable type, in TypeID order (-MIR=V/-MIR=VV, §6). VV is reserved
// for a more verbose per-instruction dump the Analyzer's scope doesn't
// include; both levels currently render the same type listing.
func PrintTypeMap(w io.Writer, report *Report) {
	var ids []ir.TypeID
	for id := range report.Types.Types {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		fmt.Fprintf(w, "%s: %s\n", id, report.Types.Types[id])
	}
}

// PrintOwnershipTable renders report's frozen Result Store to w, one
// line per ADT, in DefID order for reproducible output (-ADT=V, §6).
func PrintOwnershipTable(w io.Writer, report *Report) {
	var defs []ir.DefID
	report.Store.All(func(def ir.DefID, _ resultstore.AdtOwnership) { defs = append(defs, def) })
	sort.Slice(defs, func(i, j int) bool { return defs[i] < defs[j] })

	for _, def := range defs {
		owned, _ := report.Store.Get(def)
		fmt.Fprintf(w, "%s:\n", def)
		for i, v := range owned {
			fmt.Fprintf(w, "  variant %d: %s\n", i, v)
		}
	}
}
