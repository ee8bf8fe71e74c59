package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/sibstore/storefront/internal/adapters/repository"
	"github.com/sibstore/storefront/internal/application/services"
	"github.com/sibstore/storefront/internal/domain/credential"
	"github.com/sibstore/storefront/internal/domain/shamsi"
	"github.com/sibstore/storefront/internal/infrastructure/config"
	"github.com/sibstore/storefront/internal/infrastructure/database"
	"github.com/sibstore/storefront/internal/infrastructure/logger"
	"github.com/sibstore/storefront/internal/infrastructure/server"
	"github.com/sibstore/storefront/internal/infrastructure/session"
)

// Build information, set with -ldflags.
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "development"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the storefront API server",
		Long:  "Start the storefront API server with the public shop routes and the admin dashboard",
		Run: func(cmd *cobra.Command, args []string) {
			autoMigrate, _ := cmd.Flags().GetBool("migrate")
			runServer(autoMigrate)
		},
	}
	cmd.Flags().Bool("migrate", false, "Apply pending migrations before serving")
	return cmd
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Run: func(cmd *cobra.Command, args []string) {
			showMigrationVersion()
		},
	})

	return migrateCmd
}

// NewAdminCommand creates the admin account command
func NewAdminCommand() *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin account commands",
		Long:  "Create dashboard administrator accounts, reset their passwords and enable or disable them",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new admin",
		Run: func(cmd *cobra.Command, args []string) {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")

			if username == "" || password == "" {
				log.Fatal("Username and password are required")
			}

			createAdmin(username, password)
		},
	}

	createCmd.Flags().String("username", "", "Admin username (required)")
	createCmd.Flags().String("password", "", "Admin password (required)")

	setPasswordCmd := &cobra.Command{
		Use:   "set-password",
		Short: "Replace an admin's password",
		Run: func(cmd *cobra.Command, args []string) {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")

			if username == "" || password == "" {
				log.Fatal("Username and password are required")
			}

			setAdminPassword(username, password)
		},
	}
	setPasswordCmd.Flags().String("username", "", "Admin username (required)")
	setPasswordCmd.Flags().String("password", "", "New password (required)")

	adminCmd.AddCommand(createCmd, setPasswordCmd, newAdminStatusCommand("enable", "Allow an admin to sign in", true), newAdminStatusCommand("disable", "Block an admin and end their sessions", false))
	return adminCmd
}

func newAdminStatusCommand(use, short string, active bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			username, _ := cmd.Flags().GetString("username")
			if username == "" {
				log.Fatal("Username is required")
			}

			setAdminActive(username, active)
		},
	}
	cmd.Flags().String("username", "", "Admin username (required)")
	return cmd
}

// NewToolsCommand groups offline helpers that need no database.
func NewToolsCommand() *cobra.Command {
	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "Calendar and credential helpers",
	}

	toolsCmd.AddCommand(&cobra.Command{
		Use:   "shamsi <YYYY/MM/DD>",
		Short: "Convert a Shamsi date to Gregorian",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !shamsi.IsValid(args[0]) {
				return fmt.Errorf("invalid Shamsi date %q", args[0])
			}
			g, err := shamsi.ToGregorian(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), g.String())
			return nil
		},
	})

	passwordCmd := &cobra.Command{
		Use:   "password",
		Short: "Generate Apple ID credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")

			gen := credential.New()
			q := gen.SecurityQuestions(name)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Password: %s\n", gen.Password())
			fmt.Fprintf(out, "%s %s\n", q.Question1, q.Answer1)
			fmt.Fprintf(out, "%s %s\n", q.Question2, q.Answer2)
			fmt.Fprintf(out, "%s %s\n", q.Question3, q.Answer3)
			return nil
		},
	}
	passwordCmd.Flags().String("name", "", "Customer name")
	toolsCmd.AddCommand(passwordCmd)

	return toolsCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print storefront version",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Storefront %s\n", Version)
			fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
			fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
		},
	}
}

func runServer(autoMigrate bool) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	db, err := database.New(cfg.Database)
	if err != nil {
		appLogger.Fatalw("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if autoMigrate {
		changed, err := db.MigrateUp()
		if err != nil {
			appLogger.Fatalw("Failed to apply migrations", "error", err)
		}
		appLogger.Infow("Migrations checked", "applied", changed)
	}

	srv, err := server.New(cfg, db, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to initialize server", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Infow("Starting storefront API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"database", db.Driver(),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalw("Server failed to start", "error", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLogger.Errorw("Graceful shutdown failed", "error", err)
		}
	}
}

func openDatabase() *database.DB {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func runMigration(direction string) {
	db := openDatabase()
	defer db.Close()

	m, err := db.Migrator()
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("Migration failed: %v", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("No migrations to run")
	} else {
		fmt.Printf("Migration %s completed successfully\n", direction)
	}
}

func showMigrationVersion() {
	db := openDatabase()
	defer db.Close()

	m, err := db.Migrator()
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("No migrations applied")
		return
	}
	if err != nil {
		log.Fatalf("Failed to get migration version: %v", err)
	}

	fmt.Printf("Current migration version: %d\n", version)
	fmt.Printf("Dirty: %t\n", dirty)
}

// openAuthService builds an auth service over the configured database for
// one-off admin commands. Sessions are not needed, so an in-memory store is used.
func openAuthService() (*services.AuthService, *database.DB) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	auth := services.NewAuthService(
		repository.NewAdminRepository(db.DB),
		session.NewMemoryStore(),
		cfg.JWT,
		logger.NewNop(),
		nil,
	)
	return auth, db
}

func createAdmin(username, password string) {
	auth, db := openAuthService()
	defer db.Close()

	admin, err := auth.CreateAdmin(context.Background(), username, password)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin created successfully:\n")
	fmt.Printf("  ID: %s\n", admin.ID)
	fmt.Printf("  Username: %s\n", admin.Username)
}

func setAdminPassword(username, password string) {
	auth, db := openAuthService()
	defer db.Close()

	if err := auth.SetPassword(context.Background(), username, password); err != nil {
		log.Fatalf("Failed to set password: %v", err)
	}
	fmt.Printf("Password updated for %s\n", username)
}

func setAdminActive(username string, active bool) {
	auth, db := openAuthService()
	defer db.Close()

	if err := auth.SetActive(context.Background(), username, active); err != nil {
		log.Fatalf("Failed to update admin: %v", err)
	}
	fmt.Printf("Admin %s active: %t\n", username, active)
}
