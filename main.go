// Package main provides the entry point for the NodeSailor application.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nodesailor/internal/app"
	"nodesailor/internal/commands"
	"nodesailor/internal/scene"
	"nodesailor/internal/settings"
	"nodesailor/internal/version"
	"nodesailor/ui/mainwindow"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	flagMode     string
	flagSettings string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:     "nodesailor [map.json]",
	Short:   "nodesailor — network map visualization and liveness checks",
	Version: version.Version,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(flagLogLevel)

		mapPath := ""
		if len(args) > 0 {
			mapPath = args[0]
		}
		return run(mapPath)
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagMode, "mode", "operator", "initial mode: operator or configuration")
	rootCmd.Flags().StringVar(&flagSettings, "settings", "", "path to the settings file")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(level string) {
	logLevel := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logW := os.Stderr
	slog.SetDefault(slog.New(tint.NewHandler(logW, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.TimeOnly,
		NoColor:    !isatty.IsTerminal(logW.Fd()),
	})))
}

// configDir returns the per-user directory holding the settings and
// custom-commands files, creating it on first use.
func configDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	dir := filepath.Join(base, "nodesailor")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Warn("could not create config dir", "dir", dir, "err", err)
		return "."
	}
	return dir
}

func run(mapPath string) error {
	slog.Info("starting nodesailor", "version", version.Version)

	settingsPath := flagSettings
	if settingsPath == "" {
		settingsPath = filepath.Join(configDir(), "settings.txt")
	}
	set := settings.Load(settingsPath)

	store := commands.NewStore(filepath.Join(configDir(), "custom_commands.json"))
	if err := store.Load(); err != nil {
		slog.Warn("could not load custom commands", "err", err)
	}

	st := app.NewState()
	switch strings.ToLower(flagMode) {
	case "operator":
	case "configuration":
		st.SetMode(app.ModeConfiguration)
	default:
		return fmt.Errorf("unknown mode %q", flagMode)
	}

	sc := scene.New()
	th := &app.NetworkTheme{State: st, Light: app.LightTokens(), Dark: app.DarkTokens()}

	fyneApp := fyneapp.NewWithID("io.nodesailor.app")
	fyneApp.Settings().SetTheme(th)

	win := mainwindow.New(fyneApp, st, sc, th, set, store)

	if mapPath != "" {
		win.LoadMap(mapPath)
	}

	win.ShowWithStartup()
	fyneApp.Run()
	return nil
}
