// Package repostats collects the file/line/language statistics the
// valuation input is built from, and loads source files for analysis.
package repostats

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"codeappraise/internal/analysis"
)

// Stats summarizes a code base.
type Stats struct {
	FileCount  int
	TotalLines int
	Languages  []string
}

// languageByExt maps code file extensions to language names. Files with
// other extensions are ignored.
var languageByExt = map[string]string{
	".go":    "Go",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".py":    "Python",
	".java":  "Java",
	".c":     "C",
	".cpp":   "C++",
	".cs":    "C#",
	".rb":    "Ruby",
	".php":   "PHP",
	".swift": "Swift",
	".kt":    "Kotlin",
	".rs":    "Rust",
	".scala": "Scala",
	".sh":    "Shell",
	".html":  "HTML",
	".css":   "CSS",
	".scss":  "CSS",
	".sql":   "SQL",
}

var ignoredDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
}

// maxFileBytes guards against pulling binaries or generated blobs into
// a prompt.
const maxFileBytes = 256 * 1024

// LoadDir walks root and returns the code files beneath it, relative
// paths, sorted.
func LoadDir(root string) ([]analysis.CodeFile, error) {
	var files []analysis.CodeFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if ignoredDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		lang, ok := languageByExt[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.Size() > maxFileBytes {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		files = append(files, analysis.CodeFile{
			Path:     filepath.ToSlash(rel),
			Content:  string(content),
			Language: lang,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Collect computes stats over an already-loaded file set.
func Collect(files []analysis.CodeFile) Stats {
	langs := make(map[string]bool)
	total := 0
	for _, f := range files {
		if f.Language != "" {
			langs[f.Language] = true
		}
		total += countLines(f.Content)
	}
	out := Stats{FileCount: len(files), TotalLines: total}
	for lang := range langs {
		out.Languages = append(out.Languages, lang)
	}
	sort.Strings(out.Languages)
	return out
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
