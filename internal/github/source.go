package github

import (
	"context"
	"strings"

	"git-keyscan/internal/logger"
	"git-keyscan/internal/scan"
)

// fallbackBranch 在既没有指定分支、仓库也没有默认分支时使用。
const fallbackBranch = "main"

// Source 把 Client 适配为扫描流水线的数据源。
type Source struct {
	Client *Client
	User   string
	Branch string // 为空时使用每个仓库的默认分支
}

var _ scan.Source = (*Source)(nil)

func (s *Source) Repositories(ctx context.Context) ([]scan.Repository, error) {
	repos, err := s.Client.ListRepositories(ctx, s.User)

	out := make([]scan.Repository, 0, len(repos))
	for _, r := range repos {
		owner := r.Owner.Login
		if owner == "" {
			owner = s.User
		}
		out = append(out, scan.Repository{
			ID:   owner + "/" + r.Name,
			Name: r.Name,
			Ref:  s.refFor(r),
		})
	}
	return out, err
}

func (s *Source) refFor(r Repository) string {
	if b := strings.TrimSpace(s.Branch); b != "" {
		return b
	}
	if r.DefaultBranch != "" {
		return r.DefaultBranch
	}
	return fallbackBranch
}

func (s *Source) Files(ctx context.Context, repo scan.Repository) ([]string, error) {
	owner, name := splitID(repo.ID)
	tree, err := s.Client.GetTree(ctx, owner, name, repo.Ref)
	if err != nil {
		return nil, err
	}
	if tree.Truncated {
		logger.L().Warn("github.tree_truncated", "repo", repo.ID, "ref", repo.Ref, "entries", len(tree.Entries))
	}

	paths := make([]string, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		if e.Type == EntryBlob {
			paths = append(paths, e.Path)
		}
	}
	return paths, nil
}

func (s *Source) Content(ctx context.Context, repo scan.Repository, path string) (string, bool, error) {
	owner, name := splitID(repo.ID)
	return s.Client.FileText(ctx, owner, name, path, repo.Ref)
}

func splitID(id string) (owner, name string) {
	owner, name, found := strings.Cut(id, "/")
	if !found {
		return "", id
	}
	return owner, name
}
