package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func defaultTestFilter() Filter {
	return Filter{
		Extensions:  []string{".py", ".js", ".html", ".css", ".ts", ".jsx", ".tsx", ".java", ".c", ".cpp"},
		IgnoredDirs: []string{"venv", "myenv", "node_modules", "__pycache__", "site-packages", "dist", "build"},
	}
}

func TestFilter_Allow(t *testing.T) {
	f := defaultTestFilter()

	tests := []struct {
		path string
		want bool
	}{
		{"app.py", true},
		{"src/components/App.tsx", true},
		{"native/lib.cpp", true},
		{"README.md", false},
		{"main.go", false},
		{"node_modules/left-pad/index.js", false},
		{"venv/lib/python3.12/site.py", false},
		{"web/dist/bundle.js", false},
		{"pkg/__pycache__/mod.py", false},
		// 子串匹配：文件名中出现忽略目录名同样被跳过
		{"scripts/rebuild.py", false},
		{"distance.py", false},
		// 后缀区分大小写
		{"Legacy.PY", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Allow(tt.path))
		})
	}
}

func TestFilter_IgnoredTakesPrecedence(t *testing.T) {
	f := Filter{Extensions: []string{".js"}, IgnoredDirs: []string{"vendor"}}
	assert.True(t, f.HasAllowedExtension("vendor/jquery.js"))
	assert.False(t, f.Allow("vendor/jquery.js"))
}

func TestFilter_EmptyLists(t *testing.T) {
	var f Filter
	assert.False(t, f.Allow("app.py"))
	assert.False(t, f.Ignored("node_modules/x.js"))

	f = Filter{Extensions: []string{".py"}, IgnoredDirs: []string{""}}
	assert.True(t, f.Allow("app.py"))
}
