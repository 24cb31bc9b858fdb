package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ichika06/ojt-tracker/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create and inspect the configuration file",
}

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the example template.

If a configuration file is already in use, no new file is written.`,
	Example: `
  # Create default config at $HOME/.ojt-tracker.yaml
  ojt config create
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		if _, statErr := os.Stat(configPath); statErr == nil {
			fmt.Printf("Config file already exists at: %s\n", configPath)
			return nil
		}

		if err := os.WriteFile(configPath, []byte(config.ExampleYAML()), 0o644); err != nil {
			return fmt.Errorf("write config file %s: %w", configPath, err)
		}
		fmt.Printf("New config file created at: %s\n", configPath)
		fmt.Println("Set remote.url before signing in.")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  ojt config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		}
		fmt.Println("Configuration:")
		fmt.Printf("remote.url: %s\n", cfg.Remote.URL)
		fmt.Printf("timezone: %s\n", cfg.Timezone)
		fmt.Printf("goal.default: %g\n", cfg.Goal.Default)
		fmt.Printf("cache.path: %s\n", cfg.Cache.Path)
		fmt.Printf("sync.poll_interval: %s\n", cfg.Sync.PollInterval)
	},
}

// resolveConfigPath prefers the explicit flag, then the file viper already
// discovered, then the home default.
func resolveConfigPath(flagPath, loadedPath string) (string, error) {
	if path := strings.TrimSpace(flagPath); path != "" {
		return path, nil
	}
	if path := strings.TrimSpace(loadedPath); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".ojt-tracker.yaml"), nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configCreateCmd)
	configCmd.AddCommand(configShowCmd)
}
