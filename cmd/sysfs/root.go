package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmgilman/sysfs/exec"
	"github.com/jmgilman/sysfs/fsobj"
	"github.com/jmgilman/sysfs/internal/config"
	"github.com/jmgilman/sysfs/internal/logging"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	runner exec.Runner

	configPath string
	logLevel   string
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "sysfs", "config.toml")
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "sysfs",
		Short:         "Inspect and manipulate filesystem objects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath(), "Path to the TOML config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")

	rootCmd.AddCommand(
		newPathCmd(),
		newResolveCmd(),
		newStatCmd(a),
		newLsCmd(a),
		newMkdirCmd(a),
		newTouchCmd(a),
		newCpCmd(a),
		newMvCmd(a),
		newRmCmd(a),
		newLnCmd(a),
		newUnlinkCmd(a),
		newChmodCmd(a),
		newChownCmd(a),
		newChgrpCmd(a),
		newShCmd(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	a.cfg = cfg
	a.logger = logging.NewLogger(cfg.LogConfig(cmd.ErrOrStderr()))
	a.runner = exec.NewShellRunner(cfg.ShellOptions(a.logger)...)
	return nil
}

func (a *app) objectOptions(cmd *cobra.Command) []fsobj.Option {
	return []fsobj.Option{
		fsobj.WithRunner(a.runner),
		fsobj.WithLogger(a.logger),
		fsobj.WithContext(cmd.Context()),
	}
}

func (a *app) object(cmd *cobra.Command, path string) *fsobj.Object {
	return fsobj.New(path, a.objectOptions(cmd)...)
}
