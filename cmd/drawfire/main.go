package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/drawfire/internal/config"
	"github.com/san-kum/drawfire/internal/logging"
	"github.com/san-kum/drawfire/internal/pipeline"
	"github.com/san-kum/drawfire/internal/viz"
)

var (
	configFile string
	preset     string
	vtkDir     string
	netCDF     bool
	verbose    bool
	plane      int
	force      bool
	theme      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "drawfire [project_folder] [generate_vtk] [generate_gif]",
		Short: "plot and export fire simulation outputs",
		Long: "drawfire reads the inputs and binary outputs of a fire simulation project,\n" +
			"draws PNG plots (and GIF animations) into <project>/Plots and optionally\n" +
			"writes VTK and NetCDF files of the volumetric fields.",
		Args:          cobra.MaximumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPipeline,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "post-processing config (yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "default", "config preset: "+fmt.Sprint(config.ListPresets()))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().StringVar(&vtkDir, "vtk-dir", "", "folder for VTK files (default from config, else cwd)")
	rootCmd.Flags().BoolVar(&netCDF, "netcdf", false, "also write NetCDF files")

	summaryCmd := &cobra.Command{
		Use:   "summary [project] [field]",
		Short: "chart the per-step maximum of a field in the terminal",
		Args:  cobra.ExactArgs(2),
		RunE:  summarize,
	}
	summaryCmd.Flags().IntVar(&plane, "plane", 0, "vertical plane, 1-based (default first plotted plane)")

	inspectCmd := &cobra.Command{
		Use:   "inspect [project] [field]",
		Short: "browse the time steps of a field",
		Args:  cobra.ExactArgs(2),
		RunE:  inspect,
	}
	inspectCmd.Flags().IntVar(&plane, "plane", 0, "vertical plane, 1-based (default first plotted plane)")
	inspectCmd.Flags().StringVar(&theme, "theme", viz.ThemeEmber.Name, "color theme: "+strings.Join(viz.ThemeNames(), ", "))

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage post-processing configs",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the selected preset to a config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	manifestCmd := &cobra.Command{
		Use:   "manifest [project]",
		Short: "print the record of the last run",
		Args:  cobra.ExactArgs(1),
		RunE:  showManifest,
	}

	rootCmd.AddCommand(summaryCmd, inspectCmd, configCmd, manifestCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logging.WithLogger(ctx, logging.New(os.Stderr, logging.Level(false)))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.FromContext(ctx).Error(err)
		stop()
		os.Exit(1)
	}
}

// setup attaches a logger at the requested level and resolves the config.
func setup(cmd *cobra.Command) (context.Context, *config.Config, error) {
	ctx := logging.WithLogger(cmd.Context(), logging.New(os.Stderr, logging.Level(verbose)))
	cfg, err := loadConfig()
	return ctx, cfg, err
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %q, available: %v", preset, config.ListPresets())
	}
	return cfg, nil
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	folder, vtk, gif, err := ResolveArgs(args, cwd)
	if err != nil {
		return err
	}
	ctx, cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	_, err = pipeline.Run(ctx, pipeline.Options{
		Project: folder,
		VTK:     vtk,
		GIF:     gif,
		NetCDF:  netCDF,
		VTKDir:  vtkDir,
		Config:  cfg,
	})
	return err
}
