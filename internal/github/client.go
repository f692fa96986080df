package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"git-keyscan/internal/httpclient"
	"git-keyscan/internal/logger"
)

// perPage 是仓库列表每页的条目数（GitHub 允许的最大值）。
const perPage = 100

const userAgent = "git-keyscan"

// Client 是带认证的 GitHub REST 客户端。
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient 替换默认的 http.Client。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient 创建客户端。baseURL 为空时使用 https://api.github.com。
func NewClient(baseURL, token string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url must be absolute, got %q", baseURL)
	}

	c := &Client{
		baseURL:    u,
		token:      strings.TrimSpace(token),
		httpClient: httpclient.New(httpclient.DefaultConfig()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CurrentUser 返回令牌对应的用户，用于校验凭据。
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.getJSON(ctx, "get user", c.endpoint(nil, "user"), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListRepositories 从第 1 页开始逐页拉取 user 的仓库，直到遇到空页。
// 某一页失败时立即停止分页，返回已拉取的仓库和该错误。
func (c *Client) ListRepositories(ctx context.Context, user string) ([]Repository, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, errors.New("list repositories: empty user")
	}

	repos := make([]Repository, 0)
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(perPage))

		var batch []Repository
		op := fmt.Sprintf("list repositories (page %d)", page)
		if err := c.getJSON(ctx, op, c.endpoint(q, "users", user, "repos"), &batch); err != nil {
			return repos, err
		}
		if len(batch) == 0 {
			return repos, nil
		}
		repos = append(repos, batch...)
	}
}

// GetTree 递归获取 owner/repo 在 ref 下的文件树。
func (c *Client) GetTree(ctx context.Context, owner, repo, ref string) (*Tree, error) {
	q := url.Values{}
	q.Set("recursive", "1")

	segments := append([]string{"repos", owner, repo, "git", "trees"}, splitPath(ref)...)
	var tree Tree
	op := fmt.Sprintf("get tree %s/%s@%s", owner, repo, ref)
	if err := c.getJSON(ctx, op, c.endpoint(q, segments...), &tree); err != nil {
		return nil, err
	}
	return &tree, nil
}

// GetContent 查询单个路径的元数据。ref 为空时使用仓库默认分支。
func (c *Client) GetContent(ctx context.Context, owner, repo, path, ref string) (*Content, error) {
	q := url.Values{}
	if ref != "" {
		q.Set("ref", ref)
	}

	segments := append([]string{"repos", owner, repo, "contents"}, splitPath(path)...)
	var content Content
	op := fmt.Sprintf("get content %s/%s:%s", owner, repo, path)
	if err := c.getJSON(ctx, op, c.endpoint(q, segments...), &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// Download 下载 rawURL 指向的原始文件内容。
// 只有 rawURL 与 API 同一主机时才携带令牌；私有仓库的 download_url 自带临时 token。
func (c *Client) Download(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	body, err := c.get(ctx, "download "+rawURL, rawURL, "", u.Host == c.baseURL.Host)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FileText 通过 contents 接口定位文件并下载其文本。
// 路径不是普通文件（目录、子模块、符号链接）时 ok 为 false。
func (c *Client) FileText(ctx context.Context, owner, repo, path, ref string) (text string, ok bool, err error) {
	content, err := c.GetContent(ctx, owner, repo, path, ref)
	if err != nil {
		return "", false, err
	}
	if content.Type != "file" || content.DownloadURL == "" {
		return "", false, nil
	}

	text, err = c.Download(ctx, content.DownloadURL)
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// endpoint 拼接 API 地址，每个路径段都会被转义。
func (c *Client) endpoint(q url.Values, segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	u := c.baseURL.JoinPath(escaped...)
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) getJSON(ctx context.Context, op, endpoint string, out any) error {
	body, err := c.get(ctx, op, endpoint, "application/vnd.github+json", true)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, op, endpoint, accept string, withToken bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if withToken && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.Header.Set("User-Agent", userAgent)

	logger.L().Debug("github.request", "op", op, "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Op:         op,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
	return body, nil
}

// splitPath 按 / 拆分仓库内路径，忽略空段。
func splitPath(p string) []string {
	parts := strings.Split(p, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
