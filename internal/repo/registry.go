package repo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"git-keyscan/internal/config"
)

// registryFileName 是存储仓库列表的文件名，每行一个绝对路径。
const registryFileName = "repos"

// Registry 是登记的本地仓库列表。
type Registry struct {
	path string
}

// DefaultRegistry 返回位于配置目录下的仓库列表。
func DefaultRegistry() (*Registry, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return &Registry{path: filepath.Join(dir, registryFileName)}, nil
}

// OpenRegistry 使用指定文件作为仓库列表。
func OpenRegistry(path string) *Registry {
	return &Registry{path: path}
}

// Path 返回列表文件路径。
func (r *Registry) Path() string {
	return r.path
}

// normalizePath 去除空白、展开 ~，并转换为清理后的绝对路径。
func normalizePath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", errors.New("empty path")
	}

	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// Load 读取仓库列表，结果已去重并标准化。
// 文件不存在时返回空列表。
func (r *Registry) Load() ([]string, error) {
	content, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}

	lines := strings.Split(string(content), "\n")
	seen := make(map[string]struct{}, len(lines))
	repos := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		normalized, err := normalizePath(line)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		repos = append(repos, normalized)
	}
	return repos, nil
}

func (r *Registry) save(repos []string) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}

	var b strings.Builder
	for _, p := range repos {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return os.WriteFile(r.path, []byte(b.String()), 0o600)
}

// Add 登记仓库，已存在的路径被忽略，返回新增数量。
func (r *Registry) Add(paths ...string) (int, error) {
	repos, err := r.Load()
	if err != nil {
		return 0, err
	}

	existing := make(map[string]struct{}, len(repos)+len(paths))
	for _, p := range repos {
		existing[p] = struct{}{}
	}

	added := 0
	for _, p := range paths {
		normalized, err := normalizePath(p)
		if err != nil {
			return 0, err
		}
		if _, ok := existing[normalized]; ok {
			continue
		}
		existing[normalized] = struct{}{}
		repos = append(repos, normalized)
		added++
	}

	if added == 0 {
		return 0, nil
	}
	return added, r.save(repos)
}

// Remove 移除仓库；不在列表中时静默成功。
func (r *Registry) Remove(path string) error {
	normalized, err := normalizePath(path)
	if err != nil {
		return err
	}

	repos, err := r.Load()
	if err != nil {
		return err
	}

	kept := repos[:0]
	for _, p := range repos {
		if p != normalized {
			kept = append(kept, p)
		}
	}
	return r.save(kept)
}

// isValidRepo 判断路径是否是包含 .git 的目录。
func isValidRepo(path string) bool {
	st, err := os.Stat(path)
	if err != nil || !st.IsDir() {
		return false
	}
	_, err = os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

// Verify 把登记的仓库分为有效和无效两组。
func (r *Registry) Verify() (valid []string, invalid []string, err error) {
	repos, err := r.Load()
	if err != nil {
		return nil, nil, err
	}

	for _, p := range repos {
		if isValidRepo(p) {
			valid = append(valid, p)
		} else {
			invalid = append(invalid, p)
		}
	}
	return valid, invalid, nil
}
