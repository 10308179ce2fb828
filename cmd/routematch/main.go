package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dunglas/go-routematch/internal/config"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cli holds the state shared by every command.
type cli struct {
	configPath string
	logLevel   string
	config     config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "routematch",
		Short: "Parse, check and resolve route matcher strings",
		Long: `routematch compiles matcher strings such as "/users/{id}/posts/{*:rest}"
and matches URLs against them.

Routes can be listed in a routes.yaml, routes.toml or routes.json file
and served over HTTP with the serve command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "route table file (default: ./routes.* or ~/.config/routematch/routes.*)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn or error (default: from config)")

	// Add commands
	rootCmd.AddCommand(
		checkCmd(c),
		matchCmd(),
		expandCmd(),
		resolveCmd(c),
		serveCmd(c),
		versionCmd(),
	)

	return rootCmd
}

// setup loads the configuration and installs the default logger.
func (c *cli) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg

	level := c.logLevel
	if level == "" {
		level = cfg.LogLevel
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))

	return nil
}
