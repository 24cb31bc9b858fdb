package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	signupEmail    string
	signupPassword string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account on the configured server",
	Long: `Create an account. The server sends a verification email; sign-in is
refused until the address is verified.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		password, err := resolvePassword(signupPassword)
		if err != nil {
			return err
		}

		client, err := newRemoteClient(cfg, "")
		if err != nil {
			return err
		}

		user, err := client.SignUp(cmd.Context(), signupEmail, password)
		if err != nil {
			return fmt.Errorf("sign up: %w", err)
		}

		fmt.Printf("Account created for %s.\n", user.Email)
		fmt.Println("Check your inbox and verify the address, then run: ojt login")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)

	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Account email address")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "Account password (prompted when omitted)")
	_ = signupCmd.MarkFlagRequired("email")
}
