// Package detect 在文本中查找疑似密钥的子串。
//
// 默认规则集是固定的正则列表（云厂商 Access Key 前缀、哈希长度的十六进制串、
// 第三方 API Key 格式），另外可以叠加 gitleaks 的规则引擎。
package detect

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Pattern 是一条命名的检测规则。
type Pattern struct {
	Name        string
	Description string
	Regex       *regexp.Regexp
	// WordBounded 要求命中两侧（不以 _ 作分隔的一侧）不能紧邻 Unicode 字母或数字。
	// RE2 的 \b 只认 ASCII 单词字符。
	WordBounded bool
}

// Match 是一次命中。Offset 是命中文本起始位置的字符（rune）下标。
type Match struct {
	Rule   string
	Text   string
	Offset int
}

// Detector 在一段文本中查找命中。结果顺序必须是确定的。
type Detector interface {
	Detect(content string) []Match
}

// defaultPatterns 的顺序决定了同一文件内命中的输出顺序。
var defaultPatterns = []Pattern{
	{
		Name:        "aws-access-key-id",
		Description: "AWS access key ID",
		Regex:       regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	},
	{
		Name:        "google-api-key",
		Description: "Google API key",
		Regex:       regexp.MustCompile(`AIza[0-9A-Za-z\-_]{35}`),
	},
	{
		Name:        "stripe-live-secret",
		Description: "Stripe live secret key",
		Regex:       regexp.MustCompile(`sk_live_[0-9a-zA-Z]{24}`),
	},
	{
		Name:        "hex-32",
		Description: "32 hex characters (MD5-length token)",
		Regex:       regexp.MustCompile(`(?:\b|_)([0-9a-fA-F]{32})(?:\b|_)`),
		WordBounded: true,
	},
	{
		Name:        "hex-40",
		Description: "40 hex characters (SHA1-length token)",
		Regex:       regexp.MustCompile(`(?:\b|_)([0-9a-fA-F]{40})(?:\b|_)`),
		WordBounded: true,
	},
}

// Patterns 返回默认规则集的副本。
func Patterns() []Pattern {
	out := make([]Pattern, len(defaultPatterns))
	copy(out, defaultPatterns)
	return out
}

// RegexDetector 按规则顺序依次匹配，每条规则返回所有不重叠的命中。
type RegexDetector struct {
	patterns []Pattern
}

// NewRegexDetector 使用给定规则创建检测器；patterns 为空时使用默认规则集。
func NewRegexDetector(patterns ...Pattern) *RegexDetector {
	if len(patterns) == 0 {
		patterns = Patterns()
	}
	return &RegexDetector{patterns: patterns}
}

func (d *RegexDetector) Detect(content string) []Match {
	var matches []Match
	for _, p := range d.patterns {
		locs := findAll(p, content)
		if len(locs) == 0 {
			continue
		}

		// 命中按字节位置递增，增量换算成字符下标
		byteCursor, runeCursor := 0, 0
		for _, loc := range locs {
			runeCursor += utf8.RuneCountInString(content[byteCursor:loc[0]])
			byteCursor = loc[0]
			matches = append(matches, Match{
				Rule:   p.Name,
				Text:   content[loc[0]:loc[1]],
				Offset: runeCursor,
			})
		}
	}
	return matches
}

func findAll(p Pattern, content string) [][]int {
	if !p.WordBounded {
		return p.Regex.FindAllStringIndex(content, -1)
	}

	var locs [][]int
	for pos := 0; pos < len(content); {
		loc := p.Regex.FindStringIndex(content[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end > start && isolated(content, start, end) {
			locs = append(locs, []int{start, end})
			pos = end
			continue
		}
		// 被丢弃的候选之后可能还有以 _ 开头的命中，从下一个字符继续
		_, size := utf8.DecodeRuneInString(content[start:])
		if size == 0 {
			break
		}
		pos = start + size
	}
	return locs
}

// isolated 检查命中前后是否紧邻单词字符。
func isolated(content string, start, end int) bool {
	text := content[start:end]
	if start > 0 && !strings.HasPrefix(text, "_") {
		if r, _ := utf8.DecodeLastRuneInString(content[:start]); isWordRune(r) {
			return false
		}
	}
	if end < len(content) && !strings.HasSuffix(text, "_") {
		if r, _ := utf8.DecodeRuneInString(content[end:]); isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Multi 依次运行多个检测器并拼接结果。
type Multi []Detector

func (m Multi) Detect(content string) []Match {
	var matches []Match
	for _, d := range m {
		matches = append(matches, d.Detect(content)...)
	}
	return matches
}
