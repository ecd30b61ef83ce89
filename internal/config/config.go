package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/drawfire/internal/render"
)

const (
	DefaultWidth      = 800
	DefaultHeight     = 640
	DefaultColormap   = "viridis"
	DefaultBackground = "#ffffff"
	DefaultGIFDelay   = 50
	DefaultFPS        = 2
	DefaultPlotsDir   = "Plots"
	DefaultVTKDir     = "."
)

type Config struct {
	Image     ImageConfig     `yaml:"image" toml:"image"`
	Animation AnimationConfig `yaml:"animation" toml:"animation"`
	Planes    PlaneConfig     `yaml:"planes" toml:"planes"`
	Charts    bool            `yaml:"charts" toml:"charts"`
	NetCDF    bool            `yaml:"netcdf" toml:"netcdf"`
	PlotsDir  string          `yaml:"plots_dir" toml:"plots_dir"`
	VTKDir    string          `yaml:"vtk_dir" toml:"vtk_dir"`
}

type ImageConfig struct {
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	Colormap   string `yaml:"colormap" toml:"colormap"`
	Background string `yaml:"background" toml:"background"`
}

// AnimationConfig controls the sequences assembled when animation output
// is requested. Delay is in hundredths of a second per GIF frame.
type AnimationConfig struct {
	Delay   int      `yaml:"delay" toml:"delay"`
	FPS     int      `yaml:"fps" toml:"fps"`
	Formats []string `yaml:"formats" toml:"formats"`
}

// PlaneConfig overrides the 1-based vertical planes plotted for the
// multi-plane fields. Empty lists keep the built-in selection.
type PlaneConfig struct {
	FuelDensity []int `yaml:"fuel_density" toml:"fuel_density"`
	Moisture    []int `yaml:"moisture" toml:"moisture"`
}

func DefaultConfig() *Config {
	return &Config{
		Image: ImageConfig{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			Colormap:   DefaultColormap,
			Background: DefaultBackground,
		},
		Animation: AnimationConfig{
			Delay:   DefaultGIFDelay,
			FPS:     DefaultFPS,
			Formats: []string{"gif"},
		},
		Charts:   true,
		PlotsDir: DefaultPlotsDir,
		VTKDir:   DefaultVTKDir,
	}
}

// Load reads a YAML or TOML file over the defaults; the format follows the
// file extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var data []byte
	if isTOML(path) {
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
			return err
		}
		data = []byte(sb.String())
	} else {
		var err error
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Image.Width < render.MinWidth || c.Image.Height < render.MinHeight {
		return fmt.Errorf("image size must be at least %dx%d, got %dx%d",
			render.MinWidth, render.MinHeight, c.Image.Width, c.Image.Height)
	}
	if c.Animation.Delay <= 0 {
		return fmt.Errorf("animation delay must be positive, got %d", c.Animation.Delay)
	}
	for _, f := range c.Animation.Formats {
		if f != "gif" && f != "avi" {
			return fmt.Errorf("unknown animation format %q (available: gif, avi)", f)
		}
	}
	if c.WantsFormat("avi") && c.Animation.FPS <= 0 {
		return fmt.Errorf("avi output needs a positive fps, got %d", c.Animation.FPS)
	}
	if err := checkPlotsDir(c.PlotsDir); err != nil {
		return err
	}
	for _, p := range append(append([]int{}, c.Planes.FuelDensity...), c.Planes.Moisture...) {
		if p < 1 {
			return fmt.Errorf("planes are 1-based, got %d", p)
		}
	}
	return nil
}

// checkPlotsDir accepts only a folder strictly inside the project, since
// the plots folder is removed and recreated on every run.
func checkPlotsDir(dir string) error {
	clean := filepath.Clean(dir)
	switch {
	case strings.TrimSpace(dir) == "":
		return fmt.Errorf("plots_dir must not be empty")
	case filepath.IsAbs(dir) || filepath.VolumeName(dir) != "":
		return fmt.Errorf("plots_dir must be relative to the project, got %q", dir)
	case clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)):
		return fmt.Errorf("plots_dir must be a folder inside the project, got %q", dir)
	}
	return nil
}

// WantsFormat reports whether animation format f is enabled.
func (c *Config) WantsFormat(f string) bool {
	for _, x := range c.Animation.Formats {
		if x == f {
			return true
		}
	}
	return false
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
