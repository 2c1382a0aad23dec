// Package autoload initializes the process logger from the LOG_* environment
// on import. Blank-import it from main packages.
package autoload

import (
	configx "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/pkg/config"
	logx "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
