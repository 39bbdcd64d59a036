package panel_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ledpanel/internal/panel"
)

// irregular is a real 16-column panel with gaps in the address space.
var irregular = []panel.Strip{
	{0, 28, panel.Forward}, {29, 27, panel.Reverse}, {57, 28, panel.Forward}, {86, 26, panel.Reverse},
	{113, 28, panel.Forward}, {142, 28, panel.Reverse}, {171, 28, panel.Forward}, {200, 28, panel.Reverse},
	{229, 27, panel.Forward}, {257, 27, panel.Reverse}, {285, 27, panel.Forward}, {313, 28, panel.Reverse},
	{342, 28, panel.Forward}, {371, 28, panel.Reverse}, {402, 22, panel.Forward}, {425, 22, panel.Reverse},
}

var _ = Describe("FindClosest", func() {
	v := []float64{1, 2, 3}

	DescribeTable("sorted vector [1,2,3]",
		func(x float64, expected []int) {
			Expect(panel.FindClosest(v, x)).To(Equal(expected))
		},
		Entry("exact first", 1.0, []int{0}),
		Entry("exact middle", 2.0, []int{1}),
		Entry("exact last", 3.0, []int{2}),
		Entry("between first and second", 1.5, []int{0, 1}),
		Entry("between second and third", 2.5, []int{1, 2}),
		Entry("past the end", 3.5, []int{2}),
		Entry("before the start", 0.5, []int{0}),
	)

	It("returns nil for an empty vector", func() {
		Expect(panel.FindClosest(nil, 1)).To(BeNil())
	})
})

var _ = Describe("Strip", func() {
	It("lists forward strips in wiring order", func() {
		s := panel.Strip{Start: 4, Count: 3, Direction: panel.Forward}
		Expect(s.Indices()).To(Equal([]uint16{4, 5, 6}))
	})

	It("lists reverse strips from the far address", func() {
		s := panel.Strip{Start: 4, Count: 3, Direction: panel.Reverse}
		Expect(s.Indices()).To(Equal([]uint16{6, 5, 4}))
	})

	It("parses configuration direction codes", func() {
		for _, in := range []string{"forward", "1"} {
			d, err := panel.ParseDirection(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(panel.Forward))
		}
		for _, in := range []string{"reverse", "0", "-1"} {
			d, err := panel.ParseDirection(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(panel.Reverse))
		}
		_, err := panel.ParseDirection("sideways")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Build", func() {
	Context("with two strips of different length", func() {
		var topo *panel.Topology

		BeforeEach(func() {
			var err error
			topo, err = panel.Build([]panel.Strip{
				{Start: 0, Count: 3, Direction: panel.Forward},
				{Start: 3, Count: 5, Direction: panel.Reverse},
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rescales the shorter strip against the tallest", func() {
			ys := []float64{}
			for _, p := range topo.Matrix[0] {
				ys = append(ys, p.Y)
			}
			Expect(ys).To(Equal([]float64{0, 2, 4}))
			Expect(topo.Matrix[1][4].Index).To(Equal(uint16(3)))
			Expect(topo.Matrix[1][4].Y).To(Equal(4.0))
		})

		It("links pixels across strips by closest coordinate", func() {
			Expect(topo.Neighbours[0]).To(Equal([]uint16{7, 1}))
			Expect(topo.Neighbours[1]).To(Equal([]uint16{0, 5, 2}))
			Expect(topo.Neighbours[2]).To(Equal([]uint16{1, 3}))
			Expect(topo.Neighbours[7]).To(Equal([]uint16{0, 6}))
			Expect(topo.Neighbours[6]).To(Equal([]uint16{0, 1, 7, 5}))
			Expect(topo.Neighbours[5]).To(Equal([]uint16{1, 6, 4}))
			Expect(topo.Neighbours[4]).To(Equal([]uint16{1, 2, 5, 3}))
			Expect(topo.Neighbours[3]).To(Equal([]uint16{2, 4}))
		})
	})

	Context("with an irregular panel", func() {
		var topo *panel.Topology

		BeforeEach(func() {
			topo = panel.MustBuild(irregular)
		})

		It("has one neighbour entry per address", func() {
			Expect(topo.Neighbours).To(HaveLen(447))
			Expect(topo.TotalPixels()).To(Equal(447))
		})

		It("never references an invalid or unmapped pixel", func() {
			for i, list := range topo.Neighbours {
				for _, n := range list {
					Expect(int(n)).To(BeNumerically("<", topo.TotalPixels()))
					Expect(topo.Mapped(int(n))).To(BeTrue())
					Expect(int(n)).NotTo(Equal(i))
				}
			}
		})

		It("leaves gap addresses without neighbours", func() {
			Expect(topo.Mapped(28)).To(BeFalse())
			Expect(topo.Neighbours[28]).To(BeEmpty())
			Expect(topo.Mapped(400)).To(BeFalse())
		})

		It("gives every mapped pixel between one and six neighbours", func() {
			for _, idx := range topo.MappedIndices() {
				Expect(len(topo.Neighbours[idx])).To(And(BeNumerically(">=", 1), BeNumerically("<=", 6)))
			}
		})

		It("keeps coordinates strictly increasing within a column", func() {
			for _, col := range topo.Matrix {
				for j := 1; j < len(col); j++ {
					Expect(col[j].Y).To(BeNumerically(">", col[j-1].Y))
				}
			}
		})

		It("is deterministic", func() {
			again := panel.MustBuild(irregular)
			Expect(again.Neighbours).To(Equal(topo.Neighbours))
			Expect(again.Matrix).To(Equal(topo.Matrix))
		})
	})

	Context("with degenerate strips", func() {
		It("places a single-pixel strip at coordinate zero", func() {
			topo, err := panel.Build([]panel.Strip{
				{Start: 0, Count: 4, Direction: panel.Forward},
				{Start: 4, Count: 1, Direction: panel.Forward},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(topo.Matrix[1]).To(HaveLen(1))
			Expect(topo.Matrix[1][0].Y).To(Equal(0.0))
			Expect(topo.Neighbours[4]).To(Equal([]uint16{0}))
		})

		It("tolerates a zero-length strip", func() {
			topo, err := panel.Build([]panel.Strip{
				{Start: 0, Count: 3, Direction: panel.Forward},
				{Start: 3, Count: 0, Direction: panel.Forward},
				{Start: 3, Count: 3, Direction: panel.Forward},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(topo.Width()).To(Equal(3))
			Expect(topo.Neighbours[0]).To(Equal([]uint16{1}))
		})

		It("handles a one-pixel panel", func() {
			topo, err := panel.Build([]panel.Strip{{Start: 0, Count: 1}})
			Expect(err).NotTo(HaveOccurred())
			Expect(topo.Neighbours[0]).To(BeEmpty())
		})
	})

	It("rejects an empty descriptor set", func() {
		_, err := panel.Build(nil)
		Expect(err).To(MatchError(panel.ErrEmpty))
	})

	It("rejects overlapping strips", func() {
		_, err := panel.Build([]panel.Strip{{Start: 0, Count: 4}, {Start: 2, Count: 4}})
		Expect(err).To(MatchError(panel.ErrOverlap))
	})
})
