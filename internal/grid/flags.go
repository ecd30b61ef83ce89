package grid

// Flags mirrors the output switches of the fire configuration deck. Integer
// toggles are 0/1 except Topo (terrain kind) and Emissions (0 none, 1 CO,
// 2 PM, 3 both).
type Flags struct {
	IsFire        int
	Topo          int
	EnergyToAtmos int
	ReactRate     int
	FuelDensity   int
	QFWinds       int
	QUWindsInst   int
	QUWindsAve    int
	Moisture      int
	PercMassBurnt int
	Emissions     int
	ThermalRad    int
	Firebrands    int
}

func (f Flags) Fire() bool { return f.IsFire == 1 }

func (f Flags) CO() bool { return f.Emissions == 1 || f.Emissions == 3 }

func (f Flags) PM() bool { return f.Emissions == 2 || f.Emissions == 3 }

// Enabled lists the names of the switched-on outputs, for logging.
func (f Flags) Enabled() []string {
	var names []string
	add := func(on bool, name string) {
		if on {
			names = append(names, name)
		}
	}
	add(f.Topo > 0, "terrain")
	add(f.EnergyToAtmos == 1, "energy_to_atmos")
	add(f.ReactRate == 1, "reaction_rate")
	add(f.FuelDensity == 1, "fuel_density")
	add(f.QFWinds == 1, "fire_winds")
	add(f.QUWindsInst == 1, "qu_winds_inst")
	add(f.QUWindsAve == 1, "qu_winds_ave")
	add(f.Moisture == 1, "moisture")
	add(f.PercMassBurnt == 1, "perc_mass_burnt")
	add(f.CO(), "co_emissions")
	add(f.PM(), "pm_emissions")
	add(f.ThermalRad == 1, "thermal_radiation")
	return names
}

// Firebrand holds the firebrand switch of the fire deck.
type Firebrand struct {
	Flag int
}
