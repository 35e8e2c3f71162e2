/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/alternativa-centar/site/internal/db"
	"github.com/alternativa-centar/site/internal/services"
	"github.com/alternativa-centar/site/internal/store"
	"github.com/spf13/cobra"
)

var seedAdminUsername string

// seedAdminCmd creates the admin account or resets its password.
var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the admin account or reset its password",
	Long: `Creates the admin account, or replaces its password when it already
exists. The password is read from ADMIN_PASSWORD.

	ADMIN_PASSWORD=... alternativa seed-admin --username admin
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := os.Getenv("ADMIN_PASSWORD")
		if strings.TrimSpace(password) == "" {
			return errors.New("ADMIN_PASSWORD is required")
		}

		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}

		conn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		users := services.NewUserService(store.NewUserRepository(conn))
		user, err := users.SetPassword(cmd.Context(), seedAdminUsername, password)
		if err != nil {
			return err
		}

		log.WithField("username", user.Username).Info("admin account ready")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedAdminCmd)
	seedAdminCmd.Flags().StringVar(&seedAdminUsername, "username", "admin", "admin login name")
}
