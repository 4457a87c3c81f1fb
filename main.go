package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/secureauth/secureauth/config"
	"github.com/secureauth/secureauth/database"
	"github.com/secureauth/secureauth/database/model"
	"github.com/secureauth/secureauth/database/repository"
	"github.com/secureauth/secureauth/logger"
	"github.com/secureauth/secureauth/util/crypto"
	"github.com/secureauth/secureauth/web"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}

	err := database.InitDB(config.GetDBPath())
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Warning("close database err:", err)
		}
	}()

	server := web.NewServer()
	if err := server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		logger.Warning("stop server err:", err)
	}
	logger.CloseLogger()
}

// resetAdminPassword sets a new password for the given admin account
// directly in the database. Meant for recovery when the admin locked
// themselves out.
func resetAdminPassword(email, password string) {
	if err := database.InitDB(config.GetDBPath()); err != nil {
		fmt.Println(err)
		return
	}
	defer database.CloseDB()

	repo := repository.NewGormUserRepository(nil)
	user, err := repo.FindByEmail(email)
	if err != nil {
		fmt.Println("find account failed:", err)
		return
	}
	if user.Role != model.RoleAdmin {
		fmt.Println("account is not an admin:", email)
		return
	}
	hash, err := crypto.HashPassword(password, config.GetBcryptCost())
	if err != nil {
		fmt.Println("hash password failed:", err)
		return
	}
	fields := map[string]any{
		"password_hash":   hash,
		"failed_attempts": 0,
		"locked_until":    nil,
	}
	if _, err := repo.Update(user.Id, fields); err != nil {
		fmt.Println("reset password failed:", err)
		return
	}
	fmt.Println("reset admin password success")
}

func main() {
	_ = godotenv.Load()

	var adminEmail string
	var adminPassword string

	rootCmd := &cobra.Command{
		Use:     config.GetName(),
		Short:   "role-based authentication and user-management service",
		Version: config.GetVersion(),
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "start the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset-admin",
		Short: "reset an admin account password",
		Run: func(cmd *cobra.Command, args []string) {
			if adminEmail == "" || adminPassword == "" {
				fmt.Println("both --email and --password are required")
				return
			}
			resetAdminPassword(adminEmail, adminPassword)
		},
	}
	resetCmd.Flags().StringVar(&adminEmail, "email", "", "admin account email")
	resetCmd.Flags().StringVar(&adminPassword, "password", "", "new password")

	rootCmd.AddCommand(runCmd, resetCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
