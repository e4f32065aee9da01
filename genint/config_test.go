package genint

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gstruct"
)

var _ = Describe("DefaultParams", func() {
	It("starts from the documented defaults", func() {
		Expect(*DefaultParams()).To(MatchFields(IgnoreExtras, Fields{
			"PopulationSize": Equal(200),
			"CrossoverRate":  Equal(0.9),
			"MutationRate":   Equal(0.02),
			"EliteCount":     Equal(2),
			"Selection":      Equal(SelectionRoulette),
			"TargetFitness":  Equal(1.0),
			"Seed":           Equal(int64(0)),
		}))
	})

	It("passes its own validation", func() {
		Expect(DefaultParams().Validate()).To(Succeed())
	})
})

var _ = Describe("LoadParams", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "genint-params")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	write := func(name, contents string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(contents), 0o644)).To(Succeed())
		return path
	}

	It("keeps defaults for fields the file leaves out", func() {
		params, err := LoadParams(write("partial.yaml", "population_size: 64\nmutation_rate: 0.1\n"))
		Expect(err).ToNot(HaveOccurred())

		Expect(*params).To(MatchFields(IgnoreExtras, Fields{
			"PopulationSize": Equal(64),
			"MutationRate":   Equal(0.1),
			"CrossoverRate":  Equal(DefaultParams().CrossoverRate),
			"Selection":      Equal(SelectionRoulette),
		}))
	})

	It("rejects files that fail validation", func() {
		_, err := LoadParams(write("bad.yaml", "population_size: 7\n"))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("population_size"))
	})

	It("rejects malformed YAML", func() {
		_, err := LoadParams(write("broken.yaml", "population_size: [\n"))
		Expect(err).To(HaveOccurred())
	})

	It("reports missing files", func() {
		_, err := LoadParams(filepath.Join(dir, "nope.yaml"))
		Expect(err).To(MatchError(os.ErrNotExist))
	})

	It("round-trips the defaults through EncodeParams", func() {
		out, err := EncodeParams(DefaultParams())
		Expect(err).ToNot(HaveOccurred())

		params, err := LoadParams(write("defaults.yaml", string(out)))
		Expect(err).ToNot(HaveOccurred())
		Expect(params).To(Equal(DefaultParams()))
	})
})
