package cmd

import (
	"fmt"

	"github.com/Zachkp/syscry/internal/site"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Copy the public site to a deploy directory",
	Long:  `Copies the site root to <dir>, leaving out the editor, .git, secrets and the database, and publishes the current content as content.json.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := site.Export(cfg, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", cfg.Root, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
