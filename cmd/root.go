package cmd

import (
	"fmt"
	"os"

	"github.com/blogicum/api-go/config"
	"github.com/blogicum/api-go/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "blogicum",
	Short: "Blogicum - a blog platform API",
	Long: `Blogicum serves a blog: posts grouped by category and location,
comments, and author profiles.

Configuration comes from .env, an optional YAML file named by CONFIG_FILE
and the process environment.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and opens the database shared by every
// subcommand.
func bootstrap() (*config.Config, *logger.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := config.OpenDatabase(cfg.Database, log)
	if err != nil {
		log.Sync()
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}
