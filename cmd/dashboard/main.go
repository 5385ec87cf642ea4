package main

import (
	"os"

	"github.com/yigit/acroconnect/internal/dashboard"
	"github.com/yigit/acroconnect/internal/pkg/logger"
)

func main() {
	srv, err := dashboard.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize dashboard")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Dashboard execution failed or shutdown encountered errors")
		os.Exit(1)
	}
}
