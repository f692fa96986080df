package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// CheckBranchReachability 检查仓库的 HEAD（或指定分支）能否解析到提交。
func CheckBranchReachability(repoPath string, branch string) error {
	r, err := git.PlainOpen(repoPath)
	if err != nil {
		return fmt.Errorf("cannot open repo: %w", err)
	}
	if _, err := resolveCommit(r, ""); err != nil {
		return err
	}
	if branch == "" {
		return nil
	}
	_, err = resolveCommit(r, branch)
	return err
}

// CheckPermissions 通过读取 .git/HEAD 检查仓库读权限。
func CheckPermissions(repoPath string) error {
	f, err := os.Open(filepath.Join(repoPath, ".git", "HEAD"))
	if err != nil {
		return fmt.Errorf("cannot read .git/HEAD: %w", err)
	}
	return f.Close()
}
