package main

import (
	"fmt"
	"os"

	"rvc-service/cmd/rvc/cmd"
	"rvc-service/internal/config"
)

// @title RVC Voice Service API
// @version 1.0
// @description Trains voice models from uploaded samples and converts audio into a trained voice.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token issued by "rvc token", required when AUTH_JWT_SECRET is set.

//go:generate swag init -g cmd/rvc/main.go -d ../../ -o ../../docs
func main() {
	// A missing .env is fine; a malformed one is only a warning.
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration warning: %v\n", err)
	}

	cmd.Execute()
}
