package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillmap/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server over stored analysis runs",
	Long: `Start an HTTP server exposing stored runs, their merge trees and cluster
assignments. Clients authenticate with POST /login and a Bearer token.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	passwordHash := os.Getenv("API_PASSWORD_HASH")
	if passwordHash == "" {
		return fmt.Errorf("API_PASSWORD_HASH environment variable is required")
	}

	srv, err := server.New(server.Config{
		Port:         servePort,
		DatabaseURL:  databaseURL,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
