package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git-keyscan/internal/scan"
)

// TreeSource 把本地仓库作为扫描数据源。
// 扫描的是已提交的文件树（分支或 HEAD），不包含工作区中未提交的修改。
type TreeSource struct {
	paths  []string
	branch string
	trees  map[string]*object.Tree
}

var _ scan.Source = (*TreeSource)(nil)

// NewTreeSource 创建数据源。branch 为空时使用各仓库的 HEAD。
func NewTreeSource(paths []string, branch string) *TreeSource {
	return &TreeSource{
		paths:  paths,
		branch: strings.TrimSpace(branch),
		trees:  make(map[string]*object.Tree),
	}
}

func (s *TreeSource) Repositories(ctx context.Context) ([]scan.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repos := make([]scan.Repository, 0, len(s.paths))
	for _, p := range s.paths {
		repos = append(repos, scan.Repository{
			ID:   p,
			Name: filepath.Base(p),
			Ref:  s.branch,
		})
	}
	return repos, nil
}

func (s *TreeSource) Files(ctx context.Context, repo scan.Repository) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree, err := s.tree(repo)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0)
	err = tree.Files().ForEach(func(f *object.File) error {
		// 符号链接的 blob 内容是目标路径，不是文件内容
		if f.Mode == filemode.Symlink {
			return nil
		}
		paths = append(paths, f.Name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk tree %s: %w", repo.ID, err)
	}
	return paths, nil
}

func (s *TreeSource) Content(ctx context.Context, repo scan.Repository, path string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	tree, err := s.tree(repo)
	if err != nil {
		return "", false, err
	}

	f, err := tree.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s:%s: %w", repo.ID, path, err)
	}
	if f.Mode == filemode.Symlink {
		return "", false, nil
	}

	text, err := f.Contents()
	if err != nil {
		return "", false, fmt.Errorf("read %s:%s: %w", repo.ID, path, err)
	}
	return text, true, nil
}

// tree 打开仓库并解析提交树，结果按仓库缓存。
func (s *TreeSource) tree(repo scan.Repository) (*object.Tree, error) {
	if t, ok := s.trees[repo.ID]; ok {
		return t, nil
	}

	r, err := git.PlainOpen(repo.ID)
	if err != nil {
		return nil, fmt.Errorf("open repo %s: %w", repo.ID, err)
	}

	commit, err := resolveCommit(r, repo.Ref)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", repo.ID, err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("tree of %s: %w", repo.ID, err)
	}

	s.trees[repo.ID] = tree
	return tree, nil
}

// resolveCommit 返回 ref 指向的提交；ref 为空时使用 HEAD。
// ref 优先按本地分支解析，其次按任意修订表达式（标签、哈希等）解析。
func resolveCommit(r *git.Repository, ref string) (*object.Commit, error) {
	var hash plumbing.Hash

	switch ref = strings.TrimSpace(ref); {
	case ref == "":
		head, err := r.Head()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve HEAD: %w", err)
		}
		hash = head.Hash()
	default:
		if branchRef, err := r.Reference(plumbing.NewBranchReferenceName(ref), true); err == nil {
			hash = branchRef.Hash()
			break
		}
		h, err := r.ResolveRevision(plumbing.Revision(ref))
		if err != nil {
			return nil, fmt.Errorf("branch %q not found", ref)
		}
		hash = *h
	}

	if hash.IsZero() {
		return nil, errors.New("reference has no commits")
	}
	commit, err := r.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("commit %s is unreachable: %w", hash, err)
	}
	return commit, nil
}
