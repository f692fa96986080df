// git-keyscan 是一个扫描 GitHub 用户全部仓库（或本地登记的仓库），查找疑似泄露 API Key 的工具。
package main

import (
	"git-keyscan/cmd"
)

// main 是程序的入口函数，负责启动 CLI 命令执行。
func main() {
	cmd.Execute()
}
