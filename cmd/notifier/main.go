package main

import (
	"guestroom/config"
	"guestroom/di"
	"guestroom/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	consumer := di.InitializeConsumer()
	consumer.Run()
}
