package repostats

import (
	"os"
	"path/filepath"
	"testing"

	"codeappraise/internal/analysis"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")
	writeFile(t, root, "web/app.ts", "console.log('hi')\n")
	writeFile(t, root, "README.md", "# not code\n")
	writeFile(t, root, "node_modules/dep/index.js", "ignored\n")
	writeFile(t, root, ".git/config", "ignored\n")

	files, err := LoadDir(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %d, want 2: %+v", len(files), files)
	}
	// Sorted by path.
	if files[0].Path != "main.go" || files[1].Path != "web/app.ts" {
		t.Fatalf("paths = %q, %q", files[0].Path, files[1].Path)
	}
	if files[0].Language != "Go" || files[1].Language != "TypeScript" {
		t.Fatalf("languages = %q, %q", files[0].Language, files[1].Language)
	}
}

func TestLoadDir_SkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	big := make([]byte, maxFileBytes+1)
	for i := range big {
		big[i] = 'x'
	}
	writeFile(t, root, "huge.go", string(big))
	writeFile(t, root, "ok.go", "package ok\n")

	files, err := LoadDir(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(files) != 1 || files[0].Path != "ok.go" {
		t.Fatalf("files = %+v", files)
	}
}

func TestCollect(t *testing.T) {
	files := []analysis.CodeFile{
		{Path: "a.go", Language: "Go", Content: "one\ntwo\nthree\n"},
		{Path: "b.go", Language: "Go", Content: "one\ntwo"},
		{Path: "c.py", Language: "Python", Content: ""},
	}
	stats := Collect(files)
	if stats.FileCount != 3 {
		t.Fatalf("files = %d", stats.FileCount)
	}
	if stats.TotalLines != 5 {
		t.Fatalf("lines = %d, want 5", stats.TotalLines)
	}
	if len(stats.Languages) != 2 || stats.Languages[0] != "Go" || stats.Languages[1] != "Python" {
		t.Fatalf("languages = %v", stats.Languages)
	}
}
