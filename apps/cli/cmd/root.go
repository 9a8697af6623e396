package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/abdul-hamid-achik/wireform/packages/core/config"
	"github.com/abdul-hamid-achik/wireform/packages/logging"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag   string
	envFileFlag  string
	logLevelFlag string
	logFileFlag  string
	noColorFlag  bool

	// Resolved in PersistentPreRunE and shared by every subcommand.
	cfg         = config.DefaultConfig()
	logger      = logging.Discard()
	closeLogger = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "wireform",
	Short: "Encode HTTP request bodies and read event streams.",
	Long: `wireform turns declarative body descriptors into exact
application/x-www-form-urlencoded, multipart/form-data, text and raw
payloads, and interprets text/event-stream responses.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = closeLogger()
	},
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", getEnvString("WIREFORM_CONFIG", ""), "Path to config file (env: WIREFORM_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", getEnvString("WIREFORM_ENV_FILE", ""), "Path to .env file with WIREFORM_* settings (env: WIREFORM_ENV_FILE)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Write logs to a rotating file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(sseCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadSettings(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadConfig(configFlag)
	if err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("loading config: %w", err))
	}

	var dotenv map[string]string
	if envFileFlag != "" {
		dotenv, err = config.LoadDotEnv(envFileFlag)
		if err != nil {
			return withExitCode(ExitConfigError, err)
		}
	}
	if err := config.ApplyEnv(loaded, dotenv); err != nil {
		return withExitCode(ExitConfigError, err)
	}

	if logLevelFlag != "" {
		loaded.LogLevel = logLevelFlag
	}
	if logFileFlag != "" {
		loaded.LogFile = logFileFlag
	}
	if noColorFlag {
		loaded.NoColor = config.BoolPtr(true)
	}
	cfg = loaded

	if cfg.GetNoColor() {
		color.NoColor = true
	}

	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	opts.FilePath = cfg.LogFile
	l, closeFn, err := logging.New(opts, cmd.ErrOrStderr())
	if err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("opening log file: %w", err))
	}
	logger, closeLogger = l, closeFn
	slog.SetDefault(logger)

	return nil
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
