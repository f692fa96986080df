// Package repo 管理本地 Git 仓库，并把它们作为扫描数据源。
//
// 主要功能：
//   - Registry: 已登记仓库列表的持久化（~/.config/git-keyscan/repos）
//   - Discover: 递归扫描目录查找 Git 仓库
//   - TreeSource: 通过 go-git 读取某个分支的提交树，供扫描流水线使用
package repo
