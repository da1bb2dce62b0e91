package main

import (
	"guestroom/config"
	"guestroom/helper"
	"guestroom/shared/logger"
	"os"

	"github.com/rs/zerolog/log"
)

const argLength = 2

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration direction is required: up, down, step-up or drop")
	}

	direction, err := helper.ParseDirection(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	if err := helper.Run(config.Get(), direction); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
