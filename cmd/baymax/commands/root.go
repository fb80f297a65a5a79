package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flynn-ai/baymax/internal/config"
	"github.com/flynn-ai/baymax/internal/errors"
)

// Version is set at build time.
var Version = "dev"

var (
	// Global flags
	cfgFile  string
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "baymax",
	Short: "Baymax, your personal healthcare companion",
	Long: `Baymax answers text messages with a local language model and can
check the weather, search the web and send email on your behalf.

Examples:
  # Ask a single question
  baymax ask "What's the weather in Tokyo?"

  # Start an interactive chat
  baymax chat

  # Serve Baymax to an MCP client
  baymax mcp
`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigPath(), "config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(initCmd)
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "baymax.toml"
	}
	return filepath.Join(home, ".baymax", "config.toml")
}

// loadConfig assembles configuration from defaults, the config file, the
// env file and the process environment, in that order.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigInvalid, "invalid configuration in "+cfgFile, errors.CategoryUser)
	}
	return cfg, nil
}
