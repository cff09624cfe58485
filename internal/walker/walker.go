package walker

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileInfo holds metadata about a discovered knowledge document.
type FileInfo struct {
	Path    string
	RelPath string
	Size    int64
}

// maxFileSize is the largest document we'll consider (1 MB).
const maxFileSize = 1 << 20

// docExts are the knowledge-base document extensions.
var docExts = map[string]bool{
	"md":       true,
	"markdown": true,
	"txt":      true,
}

// defaultExcludes skip directories that never hold knowledge documents.
var defaultExcludes = []string{
	".git",
	"node_modules",
	"vendor",
	"**/drafts/**",
}

// Walk traverses root and returns the knowledge documents underneath it,
// sorted by relative path so ingestion output is deterministic. exclude
// patterns are doublestar globs matched against the slash-separated
// relative path; nil means the defaults.
func Walk(root string, exclude []string) ([]FileInfo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if exclude == nil {
		exclude = defaultExcludes
	}

	var files []FileInfo
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries, keep walking
		}

		rel, _ := filepath.Rel(absRoot, path)
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if matchesExclude(d.Name(), rel, exclude) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if !docExts[ext] {
			return nil
		}
		if matchesExclude(d.Name(), rel, exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() > maxFileSize || info.Size() == 0 {
			return nil
		}

		files = append(files, FileInfo{
			Path:    path,
			RelPath: rel,
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// matchesExclude checks a name or relative path against the exclude patterns.
func matchesExclude(name, relPath string, patterns []string) bool {
	for _, p := range patterns {
		if name == p {
			return true
		}
		if ok, err := doublestar.Match(p, relPath); err == nil && ok {
			return true
		}
	}
	return false
}
