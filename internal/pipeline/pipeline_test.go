package pipeline_test

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/drawfire/internal/config"
	"github.com/san-kum/drawfire/internal/inputs/inputstest"
	"github.com/san-kum/drawfire/internal/logging"
	"github.com/san-kum/drawfire/internal/netcdf"
	"github.com/san-kum/drawfire/internal/pipeline"
	"github.com/san-kum/drawfire/internal/storage"
)

var _ = Describe("Run", func() {
	var (
		ctx     context.Context
		project string
		vtkDir  string
		cfg     *config.Config
	)

	BeforeEach(func() {
		ctx = logging.WithLogger(context.Background(), logging.New(io.Discard, log.InfoLevel))
		project = GinkgoT().TempDir()
		vtkDir = GinkgoT().TempDir()
		Expect(inputstest.Write(project, inputstest.Default())).To(Succeed())

		cfg = config.DefaultConfig()
		cfg.Image.Width, cfg.Image.Height = 200, 160
		cfg.Charts = false
	})

	plotsDir := func() string { return filepath.Join(project, config.DefaultPlotsDir) }

	Context("with only the project folder", func() {
		It("writes plots and a manifest but no exports", func() {
			m, err := pipeline.Run(ctx, pipeline.Options{Project: project, VTKDir: vtkDir, Config: cfg})
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Plots).To(ContainElements("terrain.png", "fuel_dens_Time_0_s_plane_1.png"))
			Expect(m.VTKFiles).To(BeEmpty())
			Expect(m.NetCDF).To(BeEmpty())
			Expect(filepath.Join(plotsDir(), "fuel_dens_plane_1.gif")).NotTo(BeAnExistingFile())

			entries, err := os.ReadDir(vtkDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})

		It("records the enabled outputs and series", func() {
			_, err := pipeline.Run(ctx, pipeline.Options{Project: project, VTKDir: vtkDir, Config: cfg})
			Expect(err).NotTo(HaveOccurred())

			st := storage.New(plotsDir())
			m, err := st.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Project).To(Equal(project))
			Expect(m.Outputs).To(ContainElement("fuel_density"))
			Expect(m.FuelCells).To(Equal(9))
			Expect(m.BareCells).To(Equal(3))
			Expect(m.Series).NotTo(BeEmpty())

			stats, err := st.LoadStats()
			Expect(err).NotTo(HaveOccurred())
			Expect(stats).To(HaveLen(len(m.Series)))
		})
	})

	Context("with vtk and gif switched on", func() {
		It("writes one vtr per output time and the animations", func() {
			m, err := pipeline.Run(ctx, pipeline.Options{
				Project: project, VTK: true, GIF: true, VTKDir: vtkDir, Config: cfg,
			})
			Expect(err).NotTo(HaveOccurred())

			for _, name := range []string{
				"fuels-00000.vtr", "fuels-00002.vtr", "fuels-00004.vtr", "fuels.pvd",
				"quwinds-00000.vtr", "quwinds-00004.vtr", "quwinds.pvd",
			} {
				Expect(filepath.Join(vtkDir, name)).To(BeAnExistingFile())
			}
			Expect(m.VTKFiles).To(HaveLen(8))
			Expect(m.VTK).To(BeTrue())
			Expect(filepath.Join(plotsDir(), "fuel_dens_plane_1.gif")).To(BeAnExistingFile())
		})
	})

	Context("with netcdf enabled", func() {
		It("writes readable datasets under the plots folder", func() {
			m, err := pipeline.Run(ctx, pipeline.Options{Project: project, NetCDF: true, VTKDir: vtkDir, Config: cfg})
			Expect(err).NotTo(HaveOccurred())

			path := filepath.Join(plotsDir(), pipeline.NetCDFDir, "fuels.nc")
			Expect(m.NetCDF).To(ContainElement(path))
			times, err := netcdf.ReadTimes(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(times).To(Equal([]int{0, 2, 4}))
		})
	})

	It("fails on a folder without input decks", func() {
		_, err := pipeline.Run(ctx, pipeline.Options{Project: GinkgoT().TempDir(), Config: cfg})
		Expect(err).To(MatchError(ContainSubstring("failed to import inputs")))
		Expect(err).To(MatchError(os.ErrNotExist))
	})

	It("refuses a plots folder that would replace the project", func() {
		for _, dir := range []string{"", ".", ".."} {
			cfg.PlotsDir = dir
			_, err := pipeline.Run(ctx, pipeline.Options{Project: project, VTKDir: vtkDir, Config: cfg})
			Expect(err).To(HaveOccurred())
		}
		Expect(filepath.Join(project, "QUIC_fire.inp")).To(BeAnExistingFile())
		Expect(filepath.Join(project, "Output")).To(BeADirectory())
	})

	It("stops when the context is cancelled", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := pipeline.Run(cancelled, pipeline.Options{Project: project, Config: cfg})
		Expect(err).To(MatchError(context.Canceled))
	})
})
