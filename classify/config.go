package classify

// Config holds the heading detection thresholds. Zero values are replaced by
// the defaults of DefaultConfig.
type Config struct {
	// TitleThreshold is the minimum score for the first block to become
	// the document title.
	TitleThreshold int `json:"title_threshold" yaml:"title_threshold"`

	// HeadingThreshold is the minimum score for a heading.
	HeadingThreshold int `json:"heading_threshold" yaml:"heading_threshold"`

	// SizeRatio is how much larger than the body baseline a font must be
	// to count as a heading font (default 1.15).
	SizeRatio float64 `json:"size_ratio" yaml:"size_ratio"`

	// SizeTolerance buckets font sizes before ranking them into levels,
	// in points (default 0.5).
	SizeTolerance float64 `json:"size_tolerance" yaml:"size_tolerance"`

	// MaxHeadingLength is the longest text, in characters, that can still
	// be a heading (default 120).
	MaxHeadingLength int `json:"max_heading_length" yaml:"max_heading_length"`

	// MaxCapsLength is the longest all-caps line that scores as a heading
	// (default 60).
	MaxCapsLength int `json:"max_caps_length" yaml:"max_caps_length"`

	// MaxLevels caps the heading depth (default 6).
	MaxLevels int `json:"max_levels" yaml:"max_levels"`

	// AllowLevelSkip keeps level jumps greater than one instead of
	// normalizing them.
	AllowLevelSkip bool `json:"allow_level_skip" yaml:"allow_level_skip"`

	// Keywords are section titles that are headings on their own,
	// compared case-insensitively against the whole line.
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// DefaultKeywords are common S1000D and technical manual section titles.
var DefaultKeywords = []string{
	"INTRODUCTION",
	"PREFACE",
	"FOREWORD",
	"GENERAL",
	"GENERAL INFORMATION",
	"OVERVIEW",
	"SCOPE",
	"DESCRIPTION",
	"SYSTEM DESCRIPTION",
	"DESCRIPTION AND OPERATION",
	"TECHNICAL SPECIFICATIONS",
	"TECHNICAL DATA",
	"PERFORMANCE DATA",
	"MAINTENANCE PROCEDURES",
	"OPERATIONAL PROCEDURES",
	"SAFETY PROCEDURES",
	"TROUBLESHOOTING",
	"TROUBLESHOOTING GUIDE",
	"FAULT ISOLATION",
	"REMOVAL",
	"INSTALLATION",
	"INSPECTION",
	"REFERENCES",
	"GLOSSARY",
	"APPENDIX",
	"APPENDICES",
	"WARNINGS AND CAUTIONS",
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		TitleThreshold:   3,
		HeadingThreshold: 2,
		SizeRatio:        1.15,
		SizeTolerance:    0.5,
		MaxHeadingLength: 120,
		MaxCapsLength:    60,
		MaxLevels:        6,
		Keywords:         DefaultKeywords,
	}
}

func (c *Config) defaults() {
	d := DefaultConfig()
	if c.TitleThreshold <= 0 {
		c.TitleThreshold = d.TitleThreshold
	}
	if c.HeadingThreshold <= 0 {
		c.HeadingThreshold = d.HeadingThreshold
	}
	if c.SizeRatio <= 1 {
		c.SizeRatio = d.SizeRatio
	}
	if c.SizeTolerance <= 0 {
		c.SizeTolerance = d.SizeTolerance
	}
	if c.MaxHeadingLength <= 0 {
		c.MaxHeadingLength = d.MaxHeadingLength
	}
	if c.MaxCapsLength <= 0 {
		c.MaxCapsLength = d.MaxCapsLength
	}
	if c.MaxLevels <= 0 {
		c.MaxLevels = d.MaxLevels
	}
	if c.Keywords == nil {
		c.Keywords = d.Keywords
	}
}
