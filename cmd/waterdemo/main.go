package main

import (
	"fmt"
	"os"

	"GopherWater/internal/config"
	"GopherWater/internal/engine"
	"GopherWater/internal/logger"
	"GopherWater/internal/water"

	"github.com/gopxl/mainthread/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile      string
	verbose      bool
	width        int32
	height       int32
	assetsDir    string
	debugOverlay bool
)

var rootCmd = &cobra.Command{
	Use:   "waterdemo",
	Short: "Terrain and water rendering demo",
	Long: `waterdemo renders a heightmapped terrain with a reflective water plane.

Controls:
  W/A/S/D          move
  Shift            move faster
  Space / LCtrl    move up / down
  Right mouse drag look around
  Escape           quit

Configuration is read from --config or ./waterdemo.yaml when present.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.InitWithLevel(verbose)
	},
	RunE: runDemo,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./waterdemo.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.Flags().Int32Var(&width, "width", 0, "window width (overrides config)")
	rootCmd.Flags().Int32Var(&height, "height", 0, "window height (overrides config)")
	rootCmd.Flags().StringVar(&assetsDir, "assets", "", "assets directory (overrides config)")
	rootCmd.Flags().BoolVar(&debugOverlay, "debug-overlay", true, "show the reflection and depth targets in the bottom corners")

	rootCmd.AddCommand(heightmapCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}

func main() {
	var err error
	mainthread.Run(func() {
		err = rootCmd.Execute()
	})
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Window.Width = width
	}
	if flags.Changed("height") {
		cfg.Window.Height = height
	}
	if flags.Changed("assets") {
		cfg.Assets.Dir = assetsDir
	}
	if flags.Changed("debug-overlay") {
		cfg.Debug.Overlay = debugOverlay
	}
	if verbose {
		cfg.Debug.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// debug.verbose may come from the file; the flag only set the early logger.
	logger.InitWithLevel(cfg.Debug.Verbose)

	logger.Log.Info("Starting water demo",
		zap.Int32("width", cfg.Window.Width),
		zap.Int32("height", cfg.Window.Height),
		zap.String("assets", cfg.Assets.Dir))

	gopher := engine.NewGopher(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	gopher.X, gopher.Y = cfg.Window.X, cfg.Window.Y
	gopher.VSync = cfg.Window.VSync

	if err := gopher.Run(water.NewScene(cfg)); err != nil {
		logger.Log.Error("Water demo failed", zap.Error(err))
		return err
	}
	return nil
}
