// Package workspace manages the Analyzer's on-disk scratch area under
// /tmp/rlc (§6). It is adapted from the teacher's own createWorkspace /
// cleanup pattern (cmd/racedetector/build.go), retargeted from a
// per-build temp directory holding instrumented sources to the fixed
// /tmp/rlc layout holding LLVM-IR snapshots, downstream artifacts, and
// the call-graph JSON, stamped per run with a uuid so concurrent
// outer-driver invocations against the same machine never collide.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/kolkov/rlc/internal/config"
	"github.com/kolkov/rlc/internal/diagnostics"
)

// Workspace is one analysis run's claim on /tmp/rlc: the fixed
// subdirectories §6 names, plus a run-scoped RunID used to namespace
// llvm-ir output so two concurrent crate analyses never overwrite each
// other's files.
type Workspace struct {
	Root      string
	LLVMCache string
	LLVMIR    string
	LLVMRes   string
	CallGraph string
	RunID     uuid.UUID
}

// New creates (or reuses) the /tmp/rlc directory tree and returns a
// Workspace bound to a fresh RunID. Root directories are shared across
// runs — only files within llvm-ir are namespaced by RunID — matching
// §6's description of llvm-cache/llvm-ir/llvm-res as durable
// subdirectories of one fixed root, not one-per-invocation temp dirs.
func New() (*Workspace, error) {
	root := config.Root
	w := &Workspace{
		Root:      root,
		LLVMCache: filepath.Join(root, config.DirLLVMCache),
		LLVMIR:    filepath.Join(root, config.DirLLVMIR),
		LLVMRes:   filepath.Join(root, config.DirLLVMRes),
		CallGraph: filepath.Join(root, config.FileCallGraph),
		RunID:     uuid.New(),
	}

	for _, dir := range []string{w.LLVMCache, w.LLVMIR, w.LLVMRes} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, diagnostics.NewFault("workspace", fmt.Errorf("create %s: %w", dir, err),
				"check that /tmp is writable")
		}
	}
	return w, nil
}

// IRPath returns the path llvm-ir output for target should be written
// to, prefixed with its target kind per §6 ("collected .ll files
// renamed with their target kind prefix") and namespaced by this run's
// RunID so concurrent runs never collide on the same filename.
func (w *Workspace) IRPath(targetKind, name string) string {
	return filepath.Join(w.LLVMIR, fmt.Sprintf("%s-%s-%s.ll", targetKind, w.RunID, name))
}

// CleanCache removes llvm-cache's contents. Unlike the teacher's
// per-invocation temp directory (removed wholesale on every build),
// /tmp/rlc is a durable cache across runs; CleanCache is an explicit
// operation, not an automatic defer.
func (w *Workspace) CleanCache() error {
	entries, err := os.ReadDir(w.LLVMCache)
	if err != nil {
		return diagnostics.NewFault("workspace", err, "")
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(w.LLVMCache, e.Name())); err != nil {
			return diagnostics.NewFault("workspace", err, "")
		}
	}
	return nil
}
