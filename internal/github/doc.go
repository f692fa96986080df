// Package github 是访问 GitHub REST API 的最小客户端。
//
// 只实现扫描需要的几个只读接口：
//   - ListRepositories: 分页列出用户的仓库
//   - GetTree: 递归列出某个引用下的文件树
//   - GetContent / Download: 通过 contents 接口定位文件并下载原始内容
//
// 所有请求都是顺序、阻塞的，不做重试和限流处理。
package github
