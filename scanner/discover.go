package scanner

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"thumbnailer/imageprocessor"
	"thumbnailer/logging"
)

// Discover walks root and returns the regular files with a supported
// image extension, sorted lexicographically. Unreadable entries below root
// are skipped; only a root that cannot be walked is an error. Directories
// listed in exclude are pruned. Symbolic links are neither followed nor
// returned.
func Discover(root string, exclude ...string) ([]string, error) {
	root = filepath.Clean(root)
	pruned := make(map[string]bool, len(exclude))
	for _, dir := range exclude {
		pruned[filepath.Clean(dir)] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logging.DebugLog("Skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && pruned[path] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if imageprocessor.IsImageFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// resolvePath resolves symlinks in path. Components that do not exist yet
// (an output root before the first run) are re-joined onto the resolved
// longest existing ancestor.
func resolvePath(path string) string {
	path = filepath.Clean(path)
	var rest []string
	for dir := path; ; dir = filepath.Dir(dir) {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			for i := len(rest) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, rest[i])
			}
			return resolved
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return path
		}
		rest = append(rest, filepath.Base(dir))
	}
}

// nestedExclude returns the directory to prune when outputRoot lies inside
// inputRoot once both are resolved, expressed under inputRoot as walked.
func nestedExclude(inputRoot, outputRoot string) (string, bool) {
	realIn, realOut := resolvePath(inputRoot), resolvePath(outputRoot)
	if !isWithin(realOut, realIn) {
		return "", false
	}
	rel, err := filepath.Rel(realIn, realOut)
	if err != nil {
		return "", false
	}
	return filepath.Join(inputRoot, rel), true
}

// isWithin reports whether path lies strictly below dir
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
