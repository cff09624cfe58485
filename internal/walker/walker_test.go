package walker

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func relPaths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func TestWalkFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.md", "beta")
	writeFile(t, root, "a.txt", "alpha")
	writeFile(t, root, "notes.markdown", "notes")
	writeFile(t, root, "image.png", "binary")
	writeFile(t, root, "empty.md", "")
	writeFile(t, root, "node_modules/dep.md", "skipped")
	writeFile(t, root, "help/drafts/wip.md", "skipped")

	files, err := Walk(root, nil)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want := []string{"a.txt", "b.md", "notes.markdown"}
	got := relPaths(files)
	if len(got) != len(want) {
		t.Fatalf("Walk returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWalkCustomExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.md", "keep")
	writeFile(t, root, "internal/secret.md", "skip")

	files, err := Walk(root, []string{"internal/**"})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	got := relPaths(files)
	if len(got) != 1 || got[0] != "keep.md" {
		t.Fatalf("Walk = %v, want [keep.md]", got)
	}
}

func TestWalkSkipsOversizeFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.md", "fine")
	big := make([]byte, maxFileSize+1)
	if err := os.WriteFile(filepath.Join(root, "big.md"), big, 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := Walk(root, nil)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if got := relPaths(files); len(got) != 1 || got[0] != "small.md" {
		t.Fatalf("Walk = %v, want [small.md]", got)
	}
}
