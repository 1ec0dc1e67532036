package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/revuhq/revu/internal/auth"
)

var (
	userEmail    string
	userName     string
	userPassword string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}

		svc := auth.NewService(s, 0)
		u, err := svc.Register(cmd.Context(), userEmail, userName, userPassword)
		if err != nil {
			return err
		}

		ui.Success("User created: %s (%s)", u.Email, u.ID)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List user accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}

		users, err := s.ListUsers(cmd.Context())
		if err != nil {
			return err
		}
		if len(users) == 0 {
			ui.Info("No users")
			return nil
		}

		table := ui.Table([]string{"ID", "EMAIL", "NAME", "CREATED"})
		for _, u := range users {
			_ = table.Append([]string{
				u.ID,
				u.Email,
				u.Name,
				u.CreatedAt.Local().Format(time.DateTime),
			})
		}
		_ = table.Render()
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Email address")
	userCreateCmd.Flags().StringVar(&userName, "name", "", "Display name")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Password (min 8 characters)")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
	rootCmd.AddCommand(userCmd)
}
