/*
Copyright © 2026 ichika06

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ichika06/ojt-tracker/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ojt",
	Short: "Track on-the-job training hours against a total goal.",
	Long: `ojt-tracker logs daily work hours against a total requirement (486 hours by
default), tracks per-day overtime, and keeps a local cache so everything
works when the server is unreachable.

Hours can be entered directly or derived from time-in/time-out pairs,
including shifts that wrap past midnight.`,
	Example: `
  # Create configuration file
  ojt config create

  # Sign in (the account email must be verified)
  ojt login --email trainee@example.com

  # Log today's hours
  ojt log --hours 8 --needed 6

  # Log from a time range
  ojt log 2026-03-04 --from "8:00 AM" --to "5:30 PM"

  # Show progress statistics
  ojt stats

  # Month calendar with logged hours
  ojt calendar 2026-03

  # Import a spreadsheet kept before using the tracker
  ojt import -i hours.xlsx

  # Export everything for submission
  ojt export --output ./hours.csv

  # Local web dashboard
  ojt serve
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.ojt-tracker.yaml, then ./.ojt-tracker.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ojt-tracker")
	}

	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: ojt config create")
	}
}
