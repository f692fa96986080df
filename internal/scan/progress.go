package scan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// TextProgress 以人类可读的文字逐行输出扫描过程。
type TextProgress struct {
	out io.Writer
}

func NewTextProgress(out io.Writer) *TextProgress {
	return &TextProgress{out: out}
}

func (p *TextProgress) RepositoriesListed(_ []Repository, err error) {
	if err != nil {
		fmt.Fprintf(p.out, "Error fetching repositories: %s\n", userMessage(err))
	}
}

func (p *TextProgress) RepositoryStarted(repo Repository) {
	fmt.Fprintf(p.out, "\nScanning repository: %s\n", repo.Name)
}

func (p *TextProgress) FileStarted(_ Repository, path string) {
	fmt.Fprintf(p.out, "Scanning file: %s\n", path)
}

func (p *TextProgress) RepositoryFinished(result RepoResult) {
	if result.Err != nil {
		fmt.Fprintf(p.out, "Error fetching repository tree for %s: %s\n", result.Repository.Name, userMessage(result.Err))
	}
}

// statusMessager 由 HTTP 状态错误实现，只描述状态码和响应体。
type statusMessager interface {
	StatusMessage() string
}

// userMessage 优先使用状态错误的简短描述，完整错误（含操作名）只写入日志。
func userMessage(err error) string {
	var sm statusMessager
	if errors.As(err, &sm) {
		return sm.StatusMessage()
	}
	return err.Error()
}

// BarProgress 在终端的 stderr 上显示仓库级进度条。
// 非终端环境或仓库数量不超过 1 时不显示。
type BarProgress struct {
	bar *progressbar.ProgressBar
}

func NewBarProgress() *BarProgress {
	return &BarProgress{}
}

func (p *BarProgress) RepositoriesListed(repos []Repository, _ error) {
	p.bar = newRepoProgressBar(len(repos))
}

func (p *BarProgress) RepositoryStarted(repo Repository) {
	if p.bar == nil {
		return
	}
	p.bar.Describe("scanning " + repo.Name)
}

func (p *BarProgress) FileStarted(Repository, string) {}

func (p *BarProgress) RepositoryFinished(RepoResult) {
	if p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

// Finish 结束并清除进度条。
func (p *BarProgress) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	p.bar = nil
}

func newRepoProgressBar(total int) *progressbar.ProgressBar {
	if total <= 1 {
		return nil
	}
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}

	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription("scanning repositories"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionThrottle(65*time.Millisecond),
	)
}
