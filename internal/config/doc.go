// Package config 提供 git-keyscan 的配置管理功能。
//
// 配置文件存储在 ~/.config/git-keyscan/config.yaml，使用 YAML 格式。
// 支持的配置项包括 GitHub 用户名、访问令牌、API 地址、扫描分支，
// 以及文件扩展名白名单和忽略目录列表。
// 令牌和用户名也可以通过环境变量 GITHUB_TOKEN / GITHUB_USERNAME 提供。
package config
