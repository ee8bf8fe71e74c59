package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/sibstore/storefront/cmd/api/commands"
)

// @title Storefront API
// @version 1.0
// @description Apple products storefront with used phones, Apple ID provisioning and an admin dashboard

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront API Server",
		Long:  `Storefront serves the Persian Apple shop: the product catalog, used phones, Apple ID orders and the admin dashboard.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewAdminCommand())
	rootCmd.AddCommand(commands.NewToolsCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
