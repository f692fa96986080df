// Package scan 实现密钥扫描流水线：
// 列出仓库 -> 列出文件树 -> 过滤路径 -> 获取内容 -> 检测 -> 汇总。
//
// 流水线只依赖 Source 接口，远程（GitHub API）和本地（go-git）仓库共用同一套
// 过滤规则、检测器和报告格式。整个过程是顺序执行的。
package scan
