// Package vtk writes VTK XML RectilinearGrid files and ParaView collections
// for the volumetric datasets of a project.
package vtk

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"math"
	"os"

	"github.com/ctessum/sparse"
)

// Grid is one rectilinear dataset: point coordinates along each axis and
// point data with x varying fastest.
type Grid struct {
	X, Y, Z []float64
	Scalars []Scalar
	Vectors []Vector
}

type Scalar struct {
	Name string
	Data *sparse.DenseArray
}

type Vector struct {
	Name    string
	X, Y, Z *sparse.DenseArray
}

type vtkFile struct {
	XMLName    xml.Name    `xml:"VTKFile"`
	Type       string      `xml:"type,attr"`
	Version    string      `xml:"version,attr"`
	ByteOrder  string      `xml:"byte_order,attr"`
	HeaderType string      `xml:"header_type,attr,omitempty"`
	Grid       *rectGrid   `xml:"RectilinearGrid,omitempty"`
	Collection *collection `xml:"Collection,omitempty"`
}

type rectGrid struct {
	WholeExtent string `xml:"WholeExtent,attr"`
	Piece       piece  `xml:"Piece"`
}

type piece struct {
	Extent      string      `xml:"Extent,attr"`
	PointData   pointData   `xml:"PointData"`
	CellData    struct{}    `xml:"CellData"`
	Coordinates coordinates `xml:"Coordinates"`
}

type pointData struct {
	Scalars string      `xml:"Scalars,attr,omitempty"`
	Vectors string      `xml:"Vectors,attr,omitempty"`
	Arrays  []dataArray `xml:"DataArray"`
}

type coordinates struct {
	Arrays []dataArray `xml:"DataArray"`
}

type dataArray struct {
	Type       string `xml:"type,attr"`
	Name       string `xml:"Name,attr"`
	Components int    `xml:"NumberOfComponents,attr,omitempty"`
	Format     string `xml:"format,attr"`
	RangeMin   string `xml:"RangeMin,attr,omitempty"`
	RangeMax   string `xml:"RangeMax,attr,omitempty"`
	Data       string `xml:",chardata"`
}

// encode packs vals as Float32 behind a UInt32 byte count, base64 encoded.
func encode(vals []float64) string {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(4*len(vals)))
	for _, v := range vals {
		binary.Write(&buf, binary.LittleEndian, float32(v))
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func floatArray(name string, comps int, vals []float64) dataArray {
	a := dataArray{Type: "Float32", Name: name, Components: comps, Format: "binary", Data: encode(vals)}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if len(vals) > 0 && comps <= 1 {
		a.RangeMin = fmt.Sprintf("%g", lo)
		a.RangeMax = fmt.Sprintf("%g", hi)
	}
	return a
}

func (g *Grid) validate() error {
	n := len(g.X) * len(g.Y) * len(g.Z)
	if n == 0 {
		return fmt.Errorf("empty grid %dx%dx%d", len(g.X), len(g.Y), len(g.Z))
	}
	check := func(name string, a *sparse.DenseArray) error {
		if a == nil || len(a.Elements) != n {
			got := 0
			if a != nil {
				got = len(a.Elements)
			}
			return fmt.Errorf("%s has %d points, grid has %d", name, got, n)
		}
		return nil
	}
	for _, s := range g.Scalars {
		if err := check(s.Name, s.Data); err != nil {
			return err
		}
	}
	for _, v := range g.Vectors {
		for _, c := range []*sparse.DenseArray{v.X, v.Y, v.Z} {
			if err := check(v.Name, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteRectilinear writes g as a .vtr file.
func WriteRectilinear(path string, g *Grid) error {
	if err := g.validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	extent := fmt.Sprintf("0 %d 0 %d 0 %d", len(g.X)-1, len(g.Y)-1, len(g.Z)-1)
	pd := pointData{}
	for _, s := range g.Scalars {
		pd.Arrays = append(pd.Arrays, floatArray(s.Name, 0, s.Data.Elements))
	}
	if len(g.Scalars) > 0 {
		pd.Scalars = g.Scalars[0].Name
	}
	for _, v := range g.Vectors {
		n := len(v.X.Elements)
		vals := make([]float64, 0, 3*n)
		for i := 0; i < n; i++ {
			vals = append(vals, v.X.Elements[i], v.Y.Elements[i], v.Z.Elements[i])
		}
		pd.Arrays = append(pd.Arrays, floatArray(v.Name, 3, vals))
	}
	if len(g.Vectors) > 0 {
		pd.Vectors = g.Vectors[0].Name
	}

	doc := vtkFile{
		Type:       "RectilinearGrid",
		Version:    "1.0",
		ByteOrder:  "LittleEndian",
		HeaderType: "UInt32",
		Grid: &rectGrid{
			WholeExtent: extent,
			Piece: piece{
				Extent:    extent,
				PointData: pd,
				Coordinates: coordinates{Arrays: []dataArray{
					floatArray("x_coordinates", 0, g.X),
					floatArray("y_coordinates", 0, g.Y),
					floatArray("z_coordinates", 0, g.Z),
				}},
			},
		},
	}
	return writeXML(path, doc)
}

type collection struct {
	DataSets []dataSet `xml:"DataSet"`
}

type dataSet struct {
	Timestep int    `xml:"timestep,attr"`
	Group    string `xml:"group,attr"`
	Part     int    `xml:"part,attr"`
	File     string `xml:"file,attr"`
}

// Entry is one step of a ParaView collection.
type Entry struct {
	Time int
	File string
}

// WriteCollection writes a .pvd file indexing entries by time.
func WriteCollection(path string, entries []Entry) error {
	c := &collection{}
	for _, e := range entries {
		c.DataSets = append(c.DataSets, dataSet{Timestep: e.Time, File: e.File})
	}
	return writeXML(path, vtkFile{
		Type:       "Collection",
		Version:    "0.1",
		ByteOrder:  "LittleEndian",
		Collection: c,
	})
}

func writeXML(path string, doc vtkFile) error {
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	data := append([]byte(xml.Header), out...)
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}
