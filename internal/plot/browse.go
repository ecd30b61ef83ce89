package plot

import (
	"fmt"

	"github.com/san-kum/drawfire/internal/field"
)

// Find returns the planned series job called name.
func (d *Driver) Find(name string) (Job, error) {
	for _, j := range d.Jobs() {
		if j.Name == name && j.Kind == Series {
			return j, nil
		}
	}
	return Job{}, fmt.Errorf("no time series named %q in this project", name)
}

// Times lists the output times of job.
func (d *Driver) Times(job Job) []int {
	if job.Averaged {
		return d.grid(job).AveTimes
	}
	return d.grid(job).Times
}

// Slice loads one step of job cut at plane, scaled and masked the way the
// plots draw it. plane is ignored for surface fields.
func (d *Driver) Slice(job Job, plane, t int) (*field.Slice, error) {
	g := d.grid(job)
	if job.Planes == nil {
		g, plane = g.Surface(), 1
	}
	if job.Masked && d.mask == nil {
		if err := d.loadMask(); err != nil {
			return nil, err
		}
	}
	a, err := d.loader.LoadStep(job.Prefix, t, g, job.Layout)
	if err != nil {
		return nil, err
	}
	s, err := field.Horizontal(a, plane)
	if err != nil {
		return nil, err
	}
	if job.Log {
		s.Log10()
	}
	if job.Masked {
		d.mask.Apply(s)
	}
	return s, nil
}
