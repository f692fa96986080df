package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// defaultExcludes 中的目录不会被递归进入。
var defaultExcludes = []string{"node_modules", "vendor"}

// Discover 在 root 下递归查找 Git 仓库（包含 .git 的目录）。
// depth 为 -1 时不限制深度；找到仓库后不再进入其子目录。
// excludes 可以是目录名、相对 root 的路径或绝对路径。
func Discover(root string, depth int, excludes []string) ([]string, error) {
	rootPath, err := normalizePath(root)
	if err != nil {
		return nil, err
	}

	st, err := os.Stat(rootPath)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", rootPath)
	}

	excludes = normalizeExcludes(append(append([]string{}, defaultExcludes...), excludes...))

	found := make([]string, 0)
	err = filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return fs.SkipDir
			}
			return walkErr
		}
		// WalkDir 不跟随符号链接，链接到目录的条目 IsDir 为 false
		if !d.IsDir() {
			return nil
		}

		if path != rootPath {
			if d.Name() == ".git" || isExcluded(rootPath, path, d.Name(), excludes) {
				return fs.SkipDir
			}
		}

		if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
			found = append(found, path)
			return fs.SkipDir
		}

		if depth >= 0 && relDepth(rootPath, path) >= depth {
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(found)
	return found, nil
}

func relDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(os.PathSeparator)) + 1
}

func normalizeExcludes(excludes []string) []string {
	out := make([]string, 0, len(excludes))
	for _, ex := range excludes {
		if ex = strings.TrimSpace(ex); ex != "" {
			out = append(out, ex)
		}
	}
	return out
}

func isExcluded(rootPath, path, name string, excludes []string) bool {
	path = filepath.Clean(path)
	sep := string(os.PathSeparator)

	for _, ex := range excludes {
		if ex == name {
			return true
		}

		if ex == "~" || strings.HasPrefix(ex, "~/") {
			if expanded, err := normalizePath(ex); err == nil {
				ex = expanded
			}
		}

		exPath := filepath.Clean(ex)
		if !filepath.IsAbs(exPath) {
			exPath = filepath.Join(rootPath, exPath)
		}
		if path == exPath || strings.HasPrefix(path, exPath+sep) {
			return true
		}
	}
	return false
}
