package main

import (
	"os"

	"github.com/yigit/acroconnect/internal/pkg/logger"
	"github.com/yigit/acroconnect/internal/server"
)

// @title AcroConnect API
// @version 1.0
// @description Student skill profiles, job postings and AI-generated learning roadmaps for students and Training & Placement Officers.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Access token from /api/token/, sent as "Bearer <token>"

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
