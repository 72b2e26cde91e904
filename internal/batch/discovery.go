package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MeKo-Tech/imgkit/internal/utils"
)

// HasGlobMeta reports whether arg should be expanded as a file pattern.
func HasGlobMeta(arg string) bool {
	return strings.ContainsAny(arg, "*?[")
}

// DiscoverFiles expands the command-line inputs into an ordered, de-duplicated
// list of files. Each argument is a file, a directory or a glob pattern.
// A pattern that matches nothing contributes no files; a plain path that does
// not exist is an error.
func DiscoverFiles(args []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, arg := range args {
		if HasGlobMeta(arg) {
			matches, err := expandPattern(arg, includePatterns, excludePatterns)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			found, err := discoverInDirectory(arg, recursive, includePatterns, excludePatterns)
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f)
			}
		} else if !matchesAnyPattern(arg, excludePatterns) {
			add(arg)
		}
	}

	return files, nil
}

// expandPattern returns the regular files matching pattern in lexical order.
func expandPattern(pattern string, includePatterns, excludePatterns []string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if matchesAnyPattern(m, excludePatterns) {
			continue
		}
		if len(includePatterns) > 0 && !matchesAnyPattern(m, includePatterns) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// discoverInDirectory walks dir (recursively if asked) collecting image files.
func discoverInDirectory(dir string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFn := func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if shouldIncludeFile(path, includePatterns, excludePatterns) {
			files = append(files, path)
		}
		return nil
	}

	return files, filepath.WalkDir(dir, walkFn)
}

// shouldIncludeFile applies exclude patterns first, then include patterns.
// Without include patterns only supported image extensions are taken.
func shouldIncludeFile(path string, includePatterns, excludePatterns []string) bool {
	if matchesAnyPattern(path, excludePatterns) {
		return false
	}
	if len(includePatterns) == 0 {
		return utils.IsSupportedImage(path)
	}
	return matchesAnyPattern(path, includePatterns)
}

// matchesAnyPattern checks the base name of path against the patterns.
func matchesAnyPattern(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
