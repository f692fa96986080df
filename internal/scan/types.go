package scan

import (
	"context"
)

// Repository 是待扫描的仓库。
type Repository struct {
	ID   string // 数据源内部使用的定位信息（owner/name 或本地路径）
	Name string // 报告中展示的名称
	Ref  string // 分支或提交，为空时由数据源决定
}

// Source 是流水线的数据源。
type Source interface {
	// Repositories 列出要扫描的仓库。
	// 失败时可以同时返回已获取的部分结果。
	Repositories(ctx context.Context) ([]Repository, error)
	// Files 列出仓库中所有普通文件（blob）的路径。
	Files(ctx context.Context, repo Repository) ([]string, error)
	// Content 返回文件文本；路径不是普通文件时 ok 为 false。
	Content(ctx context.Context, repo Repository, path string) (text string, ok bool, err error)
}

// Finding 是一条扫描结果。
type Finding struct {
	Repository string `json:"repository"`
	Path       string `json:"file"`
	Rule       string `json:"rule"`
	Key        string `json:"key"`
	Position   int    `json:"position"`
}

// RepoResult 是单个仓库的扫描结果。
type RepoResult struct {
	Repository Repository
	Files      int // 实际扫描的文件数
	Skipped    int // 获取内容失败的文件数
	Findings   []Finding
	Err        error // 文件树获取失败时非空，此时仓库被跳过
}

// Result 是一次完整扫描的结果，仓库顺序与数据源返回顺序一致。
type Result struct {
	Repositories []RepoResult
	ListErr      error // 仓库列表获取失败（可能只拿到了部分仓库）
}

// Findings 按仓库顺序返回所有结果。
func (r *Result) Findings() []Finding {
	var out []Finding
	for _, rr := range r.Repositories {
		out = append(out, rr.Findings...)
	}
	return out
}

// HasFindings 报告是否存在任意结果。
func (r *Result) HasFindings() bool {
	for _, rr := range r.Repositories {
		if len(rr.Findings) > 0 {
			return true
		}
	}
	return false
}

// Failed 返回文件树获取失败的仓库。
func (r *Result) Failed() []RepoResult {
	var out []RepoResult
	for _, rr := range r.Repositories {
		if rr.Err != nil {
			out = append(out, rr)
		}
	}
	return out
}
