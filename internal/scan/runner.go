package scan

import (
	"context"

	"git-keyscan/internal/detect"
	"git-keyscan/internal/logger"
)

// Observer 接收扫描进度通知，所有方法都在扫描 goroutine 中同步调用。
type Observer interface {
	RepositoriesListed(repos []Repository, err error)
	RepositoryStarted(repo Repository)
	FileStarted(repo Repository, path string)
	RepositoryFinished(result RepoResult)
}

// Runner 顺序执行扫描流水线。
type Runner struct {
	Detector detect.Detector
	Filter   Filter
	Observer Observer // 可为 nil
}

// Run 对 src 中的每个仓库执行扫描。
// 仓库列表或单个仓库文件树失败都不会中断扫描：前者使用已获取的部分列表，
// 后者记录在 RepoResult.Err 中并继续下一个仓库。
// 只有 ctx 被取消时才返回 error，此时 Result 包含已完成的仓库。
func (r *Runner) Run(ctx context.Context, src Source) (*Result, error) {
	obs := r.Observer
	if obs == nil {
		obs = NopObserver{}
	}
	detector := r.Detector
	if detector == nil {
		detector = detect.NewRegexDetector()
	}

	result := &Result{}

	repos, err := src.Repositories(ctx)
	if err != nil {
		result.ListErr = err
		logger.L().Warn("scan.list_repositories_failed", "error", err, "partial", len(repos))
	}
	obs.RepositoriesListed(repos, err)

	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		obs.RepositoryStarted(repo)
		rr, err := r.scanRepo(ctx, src, detector, obs, repo)
		if err != nil {
			return result, err
		}
		result.Repositories = append(result.Repositories, rr)
		obs.RepositoryFinished(rr)
	}

	return result, nil
}

func (r *Runner) scanRepo(ctx context.Context, src Source, detector detect.Detector, obs Observer, repo Repository) (RepoResult, error) {
	rr := RepoResult{Repository: repo}

	paths, err := src.Files(ctx, repo)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return rr, ctxErr
		}
		logger.L().Warn("scan.tree_failed", "repo", repo.Name, "ref", repo.Ref, "error", err)
		rr.Err = err
		return rr, nil
	}

	for _, path := range paths {
		if !r.Filter.Allow(path) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return rr, err
		}

		obs.FileStarted(repo, path)
		text, ok, err := src.Content(ctx, repo, path)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return rr, ctxErr
			}
			logger.L().Warn("scan.content_failed", "repo", repo.Name, "path", path, "error", err)
			rr.Skipped++
			continue
		}
		if !ok || text == "" {
			logger.L().Debug("scan.content_empty", "repo", repo.Name, "path", path)
			continue
		}

		rr.Files++
		for _, m := range detector.Detect(text) {
			rr.Findings = append(rr.Findings, Finding{
				Repository: repo.Name,
				Path:       path,
				Rule:       m.Rule,
				Key:        m.Text,
				Position:   m.Offset,
			})
		}
	}

	return rr, nil
}

// NopObserver 忽略所有通知。
type NopObserver struct{}

func (NopObserver) RepositoriesListed([]Repository, error) {}
func (NopObserver) RepositoryStarted(Repository)           {}
func (NopObserver) FileStarted(Repository, string)         {}
func (NopObserver) RepositoryFinished(RepoResult)          {}
