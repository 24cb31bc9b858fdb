package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ichika06/ojt-tracker/remote"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session for later commands",
	Long: `Sign in against the configured server. Accounts with an unverified email
are signed out again and rejected. On success the session is written to
$HOME/.ojt-tracker/auth-state.json for the other commands to use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		password, err := resolvePassword(loginPassword)
		if err != nil {
			return err
		}

		client, err := newRemoteClient(cfg, "")
		if err != nil {
			return err
		}

		user, err := client.SignIn(cmd.Context(), loginEmail, password)
		if err != nil {
			return fmt.Errorf("sign in: %w", err)
		}
		if !user.Verified {
			_ = client.SignOut(cmd.Context())
			return fmt.Errorf("email %s is not verified yet; verify it and log in again", user.Email)
		}

		statePath, err := remote.DefaultAuthStatePath()
		if err != nil {
			return err
		}
		if err := remote.SaveAuthState(statePath, user); err != nil {
			return err
		}

		fmt.Printf("Signed in as %s.\n", user.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email address")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
	_ = loginCmd.MarkFlagRequired("email")
}

func resolvePassword(flagValue string) (string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	return password, nil
}
