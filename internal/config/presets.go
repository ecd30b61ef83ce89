package config

import "sort"

var Presets = map[string]*Config{
	"draft": {
		Image:     ImageConfig{Width: 480, Height: 384, Colormap: "viridis", Background: DefaultBackground},
		Animation: AnimationConfig{Delay: 25, FPS: 4, Formats: []string{"gif"}},
		PlotsDir:  DefaultPlotsDir,
		VTKDir:    DefaultVTKDir,
	},
	"default": DefaultConfig(),
	"publication": {
		Image:     ImageConfig{Width: 1600, Height: 1280, Colormap: "inferno", Background: DefaultBackground},
		Animation: AnimationConfig{Delay: 50, FPS: 2, Formats: []string{"gif", "avi"}},
		Charts:    true,
		PlotsDir:  DefaultPlotsDir,
		VTKDir:    DefaultVTKDir,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	c.Animation.Formats = append([]string(nil), cfg.Animation.Formats...)
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
