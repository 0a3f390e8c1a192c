package cmd

import (
	"fmt"
	"os"

	"github.com/Zachkp/syscry/internal/config"
	"github.com/spf13/cobra"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage syscry configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgFile)
		}
		if err := config.DefaultConfig().Save(cfgFile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfgFile)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.AdminPassword != "" {
			cfg.AdminPassword = "********"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "port:         %s\n", cfg.Port)
		fmt.Fprintf(cmd.OutOrStdout(), "root:         %s\n", cfg.Root)
		fmt.Fprintf(cmd.OutOrStdout(), "content_file: %s\n", cfg.ContentPath())
		fmt.Fprintf(cmd.OutOrStdout(), "images_dir:   %s\n", cfg.ImagesPath())
		fmt.Fprintf(cmd.OutOrStdout(), "db_path:      %s\n", cfg.DatabasePath())
		fmt.Fprintf(cmd.OutOrStdout(), "gin_mode:     %s\n", cfg.GinMode)
		fmt.Fprintf(cmd.OutOrStdout(), "watch:        %t\n", cfg.Watch)
		fmt.Fprintf(cmd.OutOrStdout(), "admin:        %s / %s\n", cfg.AdminUsername, cfg.AdminPassword)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
