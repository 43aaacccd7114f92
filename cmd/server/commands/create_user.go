package commands

import (
	"errors"
	"fmt"

	"github.com/conduit/internal/db"
	"github.com/conduit/internal/service"
	"github.com/spf13/cobra"
)

var (
	newUsername string
	newEmail    string
	newPassword string
	printToken  bool
)

// createUserCmd 创建初始账号，便于本地调试
var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Register an account from the command line",
	RunE: func(cmd *cobra.Command, args []string) error {
		if newUsername == "" || newEmail == "" || newPassword == "" {
			return errors.New("--username, --email and --password are required")
		}

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		if err := db.Migrate(a.db); err != nil {
			return err
		}

		user, err := a.users.Register(cmd.Context(), service.RegisterInput{
			Username: newUsername,
			Email:    newEmail,
			Password: newPassword,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d)\n", user.Username, user.ID)

		if printToken {
			token, err := a.tokens.Issue(user.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "token: %s\n", token)
		}
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&newUsername, "username", "", "Username")
	createUserCmd.Flags().StringVar(&newEmail, "email", "", "Email address")
	createUserCmd.Flags().StringVar(&newPassword, "password", "", "Password")
	createUserCmd.Flags().BoolVar(&printToken, "print-token", false, "Print a token for the new account")
	rootCmd.AddCommand(createUserCmd)
}
