// Package autoload initializes the global logger from the LOG_* environment
// on import. Import for side effects only:
//
//	import _ "bookdesk/pkg/logger/autoload"
package autoload

import (
	configx "bookdesk/pkg/config"
	logx "bookdesk/pkg/logger"
)

func init() {
	conf, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*conf)
}
