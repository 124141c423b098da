package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"relisten/internal/app"
	"relisten/internal/config"
	"relisten/internal/logging"
	"relisten/internal/player"
	"relisten/internal/transcribe"

	tea "github.com/charmbracelet/bubbletea"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "relisten [folder]",
		Short:         "Browse, play and transcribe dated voice recordings",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(configFlag, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newListCommand(&configFlag))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func runBrowse(configPath string, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("relisten needs an interactive terminal")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.LibraryDir = args[0]
	}

	confDir, err := config.Dir()
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.Open(confDir, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	// The speaker owns the audio device; a second instance would fight
	// over it.
	lock := flock.New(filepath.Join(confDir, "relisten.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another relisten instance is already running")
	}
	defer lock.Unlock()

	tr, err := transcribe.New(cfg.Transcription)
	if err != nil {
		return err
	}

	pl, err := player.New()
	if err != nil {
		return err
	}

	logger.Info("starting", "backend", tr.Name(), "library", cfg.LibraryDir)

	program := tea.NewProgram(app.New(cfg, logger, pl, tr), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
