package s1000d

import (
	"regexp"
	"strings"
)

// ModuleType is the subject area of a data module, detected from its title.
type ModuleType string

// ModuleType constants.
const (
	ModuleFlightControl ModuleType = "FLIGHT_CONTROL"
	ModuleEngine        ModuleType = "ENGINE_SYSTEM"
	ModuleWeapons       ModuleType = "WEAPONS_SYSTEM"
	ModuleAvionics      ModuleType = "AVIONICS"
	ModuleElectrical    ModuleType = "ELECTRICAL"
	ModuleHydraulic     ModuleType = "HYDRAULIC"
	ModuleFuel          ModuleType = "FUEL"
	ModuleLanding       ModuleType = "LANDING"
	ModuleCockpit       ModuleType = "COCKPIT"
	ModuleRadar         ModuleType = "RADAR"
	ModuleNavigation    ModuleType = "NAVIGATION"
	ModuleCommunication ModuleType = "COMMUNICATION"
	ModuleSafety        ModuleType = "SAFETY"
	ModuleMaintenance   ModuleType = "MAINTENANCE"
	ModuleGeneral       ModuleType = "GENERAL"
)

// moduleTypes is checked in order; the first rule with a matching keyword wins.
var moduleTypes = []struct {
	typ      ModuleType
	code     string
	keywords []string
}{
	{ModuleFlightControl, "FC001", []string{"FLIGHT", "CONTROL", "DIGITAL"}},
	{ModuleEngine, "ES002", []string{"ENGINE", "POWER", "TURBINE"}},
	{ModuleWeapons, "WS003", []string{"WEAPON", "MISSILE", "BOMB"}},
	{ModuleAvionics, "AV004", []string{"AVIONICS", "COMPUTER", "SOFTWARE"}},
	{ModuleElectrical, "EL007", []string{"ELECTRICAL", "ELECTRIC"}},
	{ModuleHydraulic, "HY008", []string{"HYDRAULIC"}},
	{ModuleFuel, "FL009", []string{"FUEL"}},
	{ModuleLanding, "LG010", []string{"LANDING", "GEAR"}},
	{ModuleCockpit, "CP011", []string{"COCKPIT", "INSTRUMENT"}},
	{ModuleRadar, "RD012", []string{"RADAR"}},
	{ModuleNavigation, "NV013", []string{"NAVIGATION", "GPS"}},
	{ModuleCommunication, "CM014", []string{"COMMUNICATION", "RADIO"}},
	{ModuleSafety, "SF006", []string{"SAFETY", "EMERGENCY"}},
	{ModuleMaintenance, "MT005", []string{"MAINTENANCE", "SERVICE", "REPAIR"}},
}

// DetectModuleType maps a title to a module type by keyword.
func DetectModuleType(title string) ModuleType {
	upper := strings.ToUpper(title)
	for _, mt := range moduleTypes {
		for _, kw := range mt.keywords {
			if strings.Contains(upper, kw) {
				return mt.typ
			}
		}
	}
	return ModuleGeneral
}

// SystemCode returns the data module code suffix for the type,
// e.g. "ES002" for ModuleEngine.
func (t ModuleType) SystemCode() string {
	for _, mt := range moduleTypes {
		if mt.typ == t {
			return mt.code
		}
	}
	return "GN016"
}

// ModuleTypeFromCode is the inverse of SystemCode. Unknown codes map to
// ModuleGeneral.
func ModuleTypeFromCode(code string) ModuleType {
	for _, mt := range moduleTypes {
		if mt.code == code {
			return mt.typ
		}
	}
	return ModuleGeneral
}

var graphicsRe = regexp.MustCompile(`\b(?:FIGURE|FIG|IMAGE|DIAGRAM|CHART|GRAPH|PICTURE)S?\b`)

// DetectModuleInfo fills the content-derived fields of info from the tree.
func DetectModuleInfo(root *ModuleNode) ModuleInfo {
	subject := root.Title
	if subject == "" {
		root.Walk(func(n *ModuleNode, _ int) bool {
			if subject == "" && n.Tag == TagSection {
				subject = n.Title
			}
			return subject == ""
		})
	}

	var text strings.Builder
	root.Walk(func(n *ModuleNode, _ int) bool {
		text.WriteString(strings.ToUpper(n.Title))
		text.WriteByte('\n')
		text.WriteString(strings.ToUpper(n.Text))
		text.WriteByte('\n')
		return true
	})
	content := text.String()

	typ := DetectModuleType(subject)
	info := ModuleInfo{
		Type:          typ,
		SystemCode:    typ.SystemCode(),
		Applicability: "General",
		HasGraphics:   graphicsRe.MatchString(content),
	}
	if strings.Contains(content, "ALL MODELS") || strings.Contains(content, "ALL VARIANTS") {
		info.Applicability = "All Models"
	}
	return info
}
