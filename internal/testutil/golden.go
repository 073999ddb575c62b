// Package testutil holds shared test helpers, chiefly golden-file
// comparison for byte-stable renderer output.
package testutil

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// updateGolden controls whether golden files should be updated.
// Use: go test ./... -update
var updateGolden = flag.Bool("update", false, "update golden files")

// ShouldUpdate returns true if golden files should be updated
func ShouldUpdate() bool {
	return *updateGolden
}

// CompareGolden compares got against the golden file at path, failing
// with a diff on mismatch. With -update the golden file is rewritten
// instead of compared.
func CompareGolden(t *testing.T, path string, got []byte) {
	t.Helper()

	if ShouldUpdate() {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create golden dir: %v", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("update golden %s: %v", path, err)
		}
		t.Logf("Updated golden: %s", path)
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden %s: %v (run with -update to create it)", path, err)
	}

	if !bytes.Equal(got, want) {
		t.Errorf("output differs from golden %s:\n%s", path, diffLines(want, got))
	}
}

// diffLines renders a rough line-by-line want/got listing; enough to
// see where byte-stable output drifted
func diffLines(want, got []byte) string {
	wantLines := bytes.Split(want, []byte("\n"))
	gotLines := bytes.Split(got, []byte("\n"))

	var sb bytes.Buffer
	max := len(wantLines)
	if len(gotLines) > max {
		max = len(gotLines)
	}
	for i := 0; i < max; i++ {
		var w, g []byte
		if i < len(wantLines) {
			w = wantLines[i]
		}
		if i < len(gotLines) {
			g = gotLines[i]
		}
		if !bytes.Equal(w, g) {
			fmt.Fprintf(&sb, "line %d:\n  want: %q\n  got:  %q\n", i+1, w, g)
		}
	}
	return sb.String()
}
