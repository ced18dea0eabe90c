package s1000d_test

import (
	"testing"

	"github.com/fwojciec/s1000d"
	"github.com/stretchr/testify/assert"
)

func TestDetectModuleType(t *testing.T) {
	t.Parallel()

	t.Run("matches keywords case-insensitively", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, s1000d.ModuleEngine, s1000d.DetectModuleType("Turbine Engine Manual"))
		assert.Equal(t, s1000d.ModuleHydraulic, s1000d.DetectModuleType("hydraulic pumps"))
		assert.Equal(t, s1000d.ModuleRadar, s1000d.DetectModuleType("Radar Operations"))
	})

	t.Run("first rule wins", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, s1000d.ModuleFlightControl, s1000d.DetectModuleType("Engine Control Unit"))
	})

	t.Run("falls back to general", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, s1000d.ModuleGeneral, s1000d.DetectModuleType("Introduction"))
		assert.Equal(t, s1000d.ModuleGeneral, s1000d.DetectModuleType(""))
	})
}

func TestModuleType_SystemCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ES002", s1000d.ModuleEngine.SystemCode())
	assert.Equal(t, "HY008", s1000d.ModuleHydraulic.SystemCode())
	assert.Equal(t, "GN016", s1000d.ModuleGeneral.SystemCode())
	assert.Equal(t, s1000d.ModuleEngine, s1000d.ModuleTypeFromCode("ES002"))
	assert.Equal(t, s1000d.ModuleGeneral, s1000d.ModuleTypeFromCode("ZZ999"))
}

func TestDetectModuleInfo(t *testing.T) {
	t.Parallel()

	t.Run("uses root title and scans content", func(t *testing.T) {
		t.Parallel()

		root := s1000d.NewModuleNode()
		root.Title = "Fuel System"
		sec := root.Append(&s1000d.ModuleNode{Tag: s1000d.TagSection, Title: "Overview"})
		sec.Append(&s1000d.ModuleNode{Tag: s1000d.TagPara, Text: "See Figure 3. Applies to all variants."})

		info := s1000d.DetectModuleInfo(root)

		assert.Equal(t, s1000d.ModuleFuel, info.Type)
		assert.Equal(t, "FL009", info.SystemCode)
		assert.Equal(t, "All Models", info.Applicability)
		assert.True(t, info.HasGraphics)
	})

	t.Run("reports all models applicability", func(t *testing.T) {
		t.Parallel()

		root := s1000d.NewModuleNode()
		root.Title = "Hydraulic System"
		root.Append(&s1000d.ModuleNode{Tag: s1000d.TagPara, Text: "Effectivity: all models."})

		info := s1000d.DetectModuleInfo(root)

		assert.Equal(t, "All Models", info.Applicability)
	})

	t.Run("falls back to first section title", func(t *testing.T) {
		t.Parallel()

		root := s1000d.NewModuleNode()
		sec := root.Append(&s1000d.ModuleNode{Tag: s1000d.TagSection, Title: "Landing Gear"})
		sec.Append(&s1000d.ModuleNode{Tag: s1000d.TagPara, Text: "Configured per figurehead."})

		info := s1000d.DetectModuleInfo(root)

		assert.Equal(t, s1000d.ModuleLanding, info.Type)
		assert.Equal(t, "General", info.Applicability)
		assert.False(t, info.HasGraphics)
	})
}
