// Package callgraph implements the External Seeds / Call Graph Loader
// (§4.5): it parses the demangled caller/callee text files the
// IR-emission stage produces and serializes the resulting adjacency
// map as JSON. It is pure data transformation, off the inference hot
// path — the Collector only reuses the same universe of function ids.
package callgraph

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ianlancetaylor/demangle"

	"github.com/kolkov/rlc/internal/diagnostics"
)

// calleeIndent is the exact indentation width the text format uses for
// a callee line (§4.5, §6: "each subsequent line prefixed by exactly
// five spaces").
const calleeIndent = "     "

// Graph is the caller -> callees adjacency map, keyed and valued by
// demangled symbol names (§6).
type Graph struct {
	Edges map[string][]string
}

// wireFormat mirrors the JSON shape §4.5/§6 specify:
// {"g": {<demangled-caller>: [<demangled-callee>, ...]}}.
type wireFormat struct {
	G map[string][]string `json:"g"`
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{Edges: make(map[string][]string)}
}

// AddEdge records that caller calls callee, both already demangled.
func (g *Graph) AddEdge(caller, callee string) {
	g.Edges[caller] = append(g.Edges[caller], callee)
}

// JSON serializes g in the §6 wire format.
func (g *Graph) JSON() ([]byte, error) {
	return json.Marshal(wireFormat{G: g.Edges})
}

// WriteFile serializes g to path. The file is written atomically via a
// temp-file-then-rename, matching §5's "written atomically before
// inference begins" requirement for the call-graph artifact.
func (g *Graph) WriteFile(path string) error {
	data, err := g.JSON()
	if err != nil {
		return diagnostics.NewFault("callgraph", err, "")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cg-*.json.tmp")
	if err != nil {
		return diagnostics.NewFault("callgraph", err, "")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return diagnostics.NewFault("callgraph", err, "")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return diagnostics.NewFault("callgraph", err, "")
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return diagnostics.NewFault("callgraph", err, "")
	}
	return nil
}

// ParseGraph reconstructs a Graph from its §6 JSON wire format.
func ParseGraph(data []byte) (*Graph, error) {
	var wf wireFormat
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, diagnostics.NewFault("callgraph", err, "is this a valid cg.json file?")
	}
	if wf.G == nil {
		wf.G = make(map[string][]string)
	}
	return &Graph{Edges: wf.G}, nil
}

// LoadDir reads every text file in dir, each encoding one compilation
// unit's caller/callee relation (§4.5), demangles every symbol, and
// merges the result into a single Graph.
func LoadDir(dir string) (*Graph, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, diagnostics.NewFault("callgraph", err, "check RLC_ARGS / the IR directory path")
	}
	g := New()
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, diagnostics.NewFault("callgraph", err, "")
		}
		err = parseFile(f, g)
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

// parseFile implements the §4.5/§6 text grammar: a left-justified line
// is a caller; each subsequent line indented by exactly five spaces
// names a callee of the most recently seen caller.
func parseFile(r io.Reader, g *Graph) error {
	scanner := bufio.NewScanner(r)
	var caller string
	haveCaller := false
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, calleeIndent) {
			if !haveCaller {
				diagnostics.Unreachable("callgraph: callee line with no preceding caller: %q", line)
			}
			callee := demangleSymbol(strings.TrimPrefix(line, calleeIndent))
			g.AddEdge(caller, callee)
			continue
		}
		caller = demangleSymbol(line)
		haveCaller = true
		if _, ok := g.Edges[caller]; !ok {
			g.Edges[caller] = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return diagnostics.NewFault("callgraph", fmt.Errorf("reading call graph text: %w", err), "")
	}
	return nil
}

// demangleSymbol demangles a mangled symbol, supporting Rust (v0 and
// legacy), GNU v2, and Itanium C++ mangling via demangle.Filter. A
// symbol it cannot demangle is returned unchanged, never an error —
// §4.5 treats the whole component as a best-effort data transform, not
// part of the inference-core failure surface.
func demangleSymbol(sym string) string {
	return demangle.Filter(sym)
}
