package scan

import "strings"

// Filter 决定文件树中的哪些路径需要扫描。
type Filter struct {
	Extensions  []string // 允许的文件后缀，例如 ".py"
	IgnoredDirs []string // 路径中包含任意一项即跳过
}

// Ignored 报告 path 是否包含任意忽略目录子串。
// 按子串匹配，"build" 同样会命中 "rebuild.py"。
func (f Filter) Ignored(path string) bool {
	for _, dir := range f.IgnoredDirs {
		if dir != "" && strings.Contains(path, dir) {
			return true
		}
	}
	return false
}

// HasAllowedExtension 报告 path 是否以允许的后缀结尾（区分大小写）。
func (f Filter) HasAllowedExtension(path string) bool {
	for _, ext := range f.Extensions {
		if ext != "" && strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Allow 报告 path 是否需要扫描：不在忽略目录中，且后缀在白名单内。
func (f Filter) Allow(path string) bool {
	if f.Ignored(path) {
		return false
	}
	return f.HasAllowedExtension(path)
}
