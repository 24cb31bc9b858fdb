package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ichika06/ojt-tracker/remote"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored session",
	Long: `Sign out on the server (best effort) and remove the stored session file.
The local cache stays on disk; it is keyed by user and reused on the next
sign-in.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		statePath, err := remote.DefaultAuthStatePath()
		if err != nil {
			return err
		}

		user, err := remote.LoadAuthState(statePath)
		if errors.Is(err, remote.ErrNoAuthState) {
			fmt.Println("Not signed in.")
			return nil
		}
		if err != nil {
			return err
		}

		if cfg, cfgErr := loadConfig(); cfgErr == nil {
			if client, clientErr := newRemoteClient(cfg, user.Token); clientErr == nil {
				if signOutErr := client.SignOut(cmd.Context()); signOutErr != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: server sign-out failed: %v\n", signOutErr)
				}
			}
		}

		if err := remote.ClearAuthState(statePath); err != nil {
			return err
		}
		fmt.Printf("Signed out %s.\n", user.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
