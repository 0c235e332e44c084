package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/structfs/structfs/internal/cli/prompt"
	"github.com/structfs/structfs/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample StructFS configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/structfs/config.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  structfs init

  # Initialize with custom path
  structfs init --config /etc/structfs/config.yaml

  # Force overwrite existing config
  structfs init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	configPath := configFile
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	force := initForce
	if !force {
		if _, err := os.Stat(configPath); err == nil {
			ok, err := prompt.Confirm(fmt.Sprintf("%s already exists. Overwrite?", configPath), false)
			if err != nil && !errors.Is(err, prompt.ErrAborted) {
				return err
			}
			if !ok {
				fmt.Println("Aborted.")
				return nil
			}
			force = true
		}
	}

	var err error
	if configFile != "" {
		err = config.InitConfigToPath(configFile, force)
	} else {
		configPath, err = config.InitConfig(force)
	}

	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file to customize your setup")
	fmt.Println("  2. Start the server with: structfs start")
	fmt.Printf("  3. Or specify custom config: structfs start --config %s\n", configPath)

	return nil
}
