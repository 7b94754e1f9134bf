package main

import (
	"github.com/guidechat/backend/internal/server"
	"github.com/guidechat/backend/internal/util"
	"github.com/guidechat/backend/pkg/logger"
	"github.com/guidechat/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  debug,
		Format: util.GetEnvString("LOG_FORMAT", "text"),
	})
	logger.Init(consoleLogger)

	server.Init()
}
