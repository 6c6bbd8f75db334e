package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/rbenavente/cargas-api/internal/auth"
)

// hashPasswordCmd provisions the admin credential: the output goes into
// insurance.admin_password_hash in config.yml or ADMIN_PASSWORD_HASH.
var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print the bcrypt hash for an admin password",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		fmt.Println(hash)
	},
}
