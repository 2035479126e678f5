package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caselens/rfescope/internal/security"
)

var userFlags struct {
	username string
	role     string
	dbPath   string
}

var userCmd = &cobra.Command{
	Use:   "user create",
	Short: "Create an API user (password read from stdin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runUser,
}

func init() {
	f := userCmd.Flags()
	f.StringVar(&userFlags.username, "username", "", "Username (required)")
	f.StringVar(&userFlags.role, "role", "attorney", "Role: admin or attorney")
	f.StringVar(&userFlags.dbPath, "db", "", "SQLite database path")

	_ = userCmd.MarkFlagRequired("username")
}

func runUser(cmd *cobra.Command, args []string) error {
	if args[0] != "create" {
		return fmt.Errorf("unknown user subcommand %q", args[0])
	}
	if userFlags.role != "admin" && userFlags.role != "attorney" {
		return fmt.Errorf("role must be admin or attorney")
	}
	cfg, _, err := setup()
	if err != nil {
		return err
	}
	if userFlags.dbPath == "" {
		userFlags.dbPath = cfg.Database.DSN
	}

	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	pw, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	pw = strings.TrimRight(pw, "\r\n")
	if len(pw) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	hash, err := security.HashPassword(pw)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	db, err := openDB(userFlags.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.CreateUser(userFlags.username, hash, userFlags.role)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "User %s (%s) created with id %d\n", userFlags.username, userFlags.role, id)
	return nil
}
