package callgraph_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/kolkov/rlc/internal/callgraph"
)

func TestLoadDirParsesFiveSpaceIndentedCallees(t *testing.T) {
	dir := t.TempDir()
	content := "main\n     helper\n     other::func\nhelper\n     leaf\n"
	if err := os.WriteFile(filepath.Join(dir, "unit1.txt"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := callgraph.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	if len(g.Edges["main"]) != 2 {
		t.Errorf("main's callees = %v, want 2 entries", g.Edges["main"])
	}
	if len(g.Edges["helper"]) != 1 || g.Edges["helper"][0] != "leaf" {
		t.Errorf("helper's callees = %v, want [leaf]", g.Edges["helper"])
	}
}

func TestJSONRoundTripReconstructsEdgesModuloOrder(t *testing.T) {
	g := callgraph.New()
	g.AddEdge("a", "b")
	g.AddEdge("a", "c")
	g.AddEdge("b", "c")

	data, err := g.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	got, err := callgraph.ParseGraph(data)
	if err != nil {
		t.Fatalf("ParseGraph: %v", err)
	}

	opt := cmpopts.SortSlices(func(a, b string) bool { return a < b })
	if diff := cmp.Diff(g.Edges, got.Edges, opt); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteFileIsAtomicAndParseable(t *testing.T) {
	g := callgraph.New()
	g.AddEdge("x", "y")

	path := filepath.Join(t.TempDir(), "cg.json")
	if err := g.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got, err := callgraph.ParseGraph(data)
	if err != nil {
		t.Fatalf("ParseGraph: %v", err)
	}
	if len(got.Edges["x"]) != 1 || got.Edges["x"][0] != "y" {
		t.Errorf("Edges[x] = %v, want [y]", got.Edges["x"])
	}
}

func TestJSONWireFormatSnapshot(t *testing.T) {
	g := callgraph.New()
	g.AddEdge("caller_a", "callee_b")
	g.AddEdge("caller_a", "callee_c")

	data, err := g.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	snaps.MatchSnapshot(t, "wire_format", string(data))
}
