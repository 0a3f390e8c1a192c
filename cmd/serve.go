package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zachkp/syscry/internal/content"
	"github.com/Zachkp/syscry/internal/db"
	"github.com/Zachkp/syscry/internal/live"
	"github.com/Zachkp/syscry/internal/server"
	"github.com/spf13/cobra"
)

const watchInterval = 500 * time.Millisecond

var (
	serveWatch bool
	servePort  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the content-management server",
	Long: `Serves the site, the image list and the content API. With --watch, edits
to content.json are pushed to open editors over /api/live.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("watch") {
			cfg.Watch = serveWatch
		}
		if servePort != "" {
			cfg.Port = servePort
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		database, err := db.Open(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		store := content.NewStore(cfg.ContentPath(), database)
		seeded, err := store.Seed(ctx)
		if err != nil {
			return fmt.Errorf("seeding content: %w", err)
		}
		if seeded {
			log.Printf("Created %s with default content", store.Path())
		}

		hub := live.NewHub()
		if cfg.Watch {
			go func() {
				if err := live.WatchFile(ctx, store.Path(), hub, watchInterval); err != nil {
					log.Printf("Content watcher stopped: %v", err)
				}
			}()
		}

		return server.New(cfg, store, database, hub).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "push content.json changes to /api/live subscribers")
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
