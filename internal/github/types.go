package github

// User 是 /user 和仓库 owner 的公共字段。
type User struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
	Type  string `json:"type"`
}

// Repository 是仓库列表接口返回的条目。
type Repository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Owner         User   `json:"owner"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
	Fork          bool   `json:"fork"`
	Archived      bool   `json:"archived"`
}

// 文件树条目类型
const (
	EntryBlob   = "blob"
	EntryTree   = "tree"
	EntryCommit = "commit" // submodule
)

type TreeEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
	Size int64  `json:"size"`
}

// Tree 是 git/trees 接口的响应。
// Truncated 为 true 时 GitHub 只返回了部分条目。
type Tree struct {
	SHA       string      `json:"sha"`
	Entries   []TreeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

// Content 是 contents 接口对单个路径的响应。
// Type 可能是 file、dir、symlink 或 submodule。
type Content struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}
