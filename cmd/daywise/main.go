package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/daywise/core/cmd/daywise/commands"
)

// @title DayWise API
// @version 1.0
// @description Smart day planner with AI-assisted schedule generation

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "daywise",
		Short: "DayWise API Server",
		Long:  `DayWise turns a list of tasks into an optimal single-day schedule, with optimistic task editing and guest sessions that never touch the database.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
