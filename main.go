package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jadenpxrk/tidy/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// version is the application version, set via ldflags.
var version = "dev"

// userError is a message shown to the user verbatim.
type userError string

func (e userError) Error() string { return string(e) }

const (
	errInvalidCommand      userError = "Please provide a valid command"
	errInvalidTreePath     userError = "Please provide a valid path"
	errInvalidOrganizePath userError = "Please provide a valid path."
)

// app carries the state shared by every command of one invocation.
type app struct {
	v       *viper.Viper
	log     *zap.Logger
	cfgFile string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: logging.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "tidy <command> [path]",
		Short: "tidy prints directory trees and sorts files into category folders.",
		Long: `tidy prints the structure of a directory as an indented tree, and
organizes the files of a directory into organized_files/<category>/ folders
based on their extension.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs, // unknown commands reach RunE instead of cobra's error
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return errInvalidCommand
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.config/tidy/config.toml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format: console or json")

	rootCmd.AddCommand(a.newTreeCmd(), a.newOrganizeCmd())
	rootCmd.SetHelpCommand(newHelpCmd())

	a.setDefaults()
	return rootCmd
}

func (a *app) setDefaults() {
	a.v.SetDefault("log_level", "warn")
	a.v.SetDefault("log_format", "console")
	a.v.SetDefault("verbose", false)
	a.v.SetDefault("hidden", true)
	a.v.SetDefault("max_depth", 0)
	a.v.SetDefault("follow_symlinks", false)
	a.v.SetDefault("gitignore", false)
	a.v.SetDefault("destination", "organized_files")
	a.v.SetDefault("conflict", "overwrite")
	a.v.SetDefault("ignore_case", false)
	a.v.SetDefault("sniff", false)
	a.v.SetDefault("dry_run", false)
}

// initConfig binds the running command's flags, reads the config file and
// environment, then builds the logger. Precedence: default < config < env < flag.
func (a *app) initConfig(cmd *cobra.Command) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "help" || f.Name == "version" || f.Name == "config" {
			return
		}
		if err := a.v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return fmt.Errorf("error binding flags: %w", bindErr)
	}

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "tidy"))
		}
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("toml")
	}

	a.v.SetEnvPrefix("TIDY")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv() // read in environment variables that match TIDY_*

	readErr := a.v.ReadInConfig()

	cfg := logging.DefaultConfig()
	cfg.Output = cmd.ErrOrStderr()
	if level := a.v.GetString("log_level"); level != "" {
		cfg.Level = level
	}
	if a.v.GetBool("verbose") {
		cfg.Level = "debug"
	}
	asJSON, err := logging.ParseFormat(a.v.GetString("log_format"))
	if err != nil {
		return err
	}
	cfg.JSON = asJSON
	log, err := logging.New(cfg)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	a.log = log

	var notFound viper.ConfigFileNotFoundError
	switch {
	case readErr == nil:
		a.log.Debug("using config file", zap.String("path", a.v.ConfigFileUsed()))
	case a.cfgFile != "":
		return fmt.Errorf("error reading config file %s: %w", a.cfgFile, readErr)
	case errors.As(readErr, &notFound):
		a.log.Debug("no config file found, using defaults and flags")
	default:
		a.log.Warn("error reading config file, ignoring it", zap.Error(readErr))
	}
	return nil
}

// targetPath returns the path argument, or the working directory when absent.
func targetPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("could not determine working directory: %w", err)
	}
	return wd, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
