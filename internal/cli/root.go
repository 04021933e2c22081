// Package cli provides the command-line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sharkusmanch/pc/internal/config"
	"github.com/sharkusmanch/pc/internal/domain"
	"github.com/sharkusmanch/pc/pkg/version"
)

// rootOptions holds the global flags shared by every command.
type rootOptions struct {
	configFile string
	histfile   string
	v          *viper.Viper
	logger     *slog.Logger
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New(), logger: slog.Default()}

	rootCmd := &cobra.Command{
		Use:   "pc [flags] [server [backend flags]]",
		Short: "Command line paste service client",
		Long: `pc reads text from standard input, uploads it to a paste service and
prints the url of the new paste.

Servers are defined in the config file. The first argument selects a server;
any arguments after it are passed to that server's backend, for example:

    pc termbin -p 9999
    pc ix --syntax NONE

Run "pc <server> --help" to see the options a server's backend accepts.
A server named like a subcommand is selected after "--", as in "pc -- list".`,
		Version:       version.Get().String(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setupLogging(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaste(cmd, opts, args)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Everything after the server name belongs to the backend.
	rootCmd.Flags().SetInterspersed(false)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configFile, "config", "c", "", "config file path, or NONE to use the built-in defaults")
	pf.StringVarP(&opts.histfile, "histfile", "H", "", "file to append paste urls to, or NONE to disable")
	pf.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.String("log-file", "", "write logs to this file, with rotation, instead of stderr")

	_ = opts.v.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = opts.v.BindPFlag("log_file", pf.Lookup("log-file"))
	opts.v.SetEnvPrefix(config.EnvPrefix)
	opts.v.AutomaticEnv()

	rootCmd.AddCommand(NewListCmd(opts))
	rootCmd.AddCommand(NewListBackendsCmd())
	rootCmd.AddCommand(NewShowBackendCmd())
	rootCmd.AddCommand(NewDumpConfigCmd(opts))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

// setupLogging configures the default logger from --log-level/PC_LOG_LEVEL
// and --log-file/PC_LOG_FILE.
func (o *rootOptions) setupLogging(stderr io.Writer) error {
	level, err := parseLevel(o.v.GetString("log_level"))
	if err != nil {
		return err
	}

	output := stderr
	if path := o.v.GetString("log_file"); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		// Use lumberjack for log rotation
		output = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
	}

	handler := slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: level,
	})
	o.logger = slog.New(handler)
	slog.SetDefault(o.logger)

	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log level must be one of: debug, info, warn, error; got %q", s)
	}
}

// loadConfig reads the config selected by --config and applies --histfile.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	loader := config.NewLoader(config.WithLogger(o.logger))

	cfg, path, err := loader.Load(domain.ParseOverride(o.configFile, cmd.Flags().Changed("config")))
	if err != nil {
		return config.Config{}, err
	}
	if path == "" {
		o.logger.Debug("no config file found, using built-in defaults")
	}

	histfile := domain.ParseOverride(o.histfile, cmd.Flags().Changed("histfile"))
	return config.ApplyHistfileOverride(cfg, histfile), nil
}
