package presets

// ParameterLanguage marks a preset whose parameter is a language code.
// Applying such a preset also switches the script language.
const ParameterLanguage = "language"

// Preset is a named transform instruction
type Preset struct {
	Name        string `yaml:"name" json:"name"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
	Parameter   string `yaml:"parameter,omitempty" json:"parameter,omitempty"` // "" or "language" ("translate:es")
	Instruction string `yaml:"instruction" json:"-"`
}

// presetFile is the YAML layout of config/presets.yaml
type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// Resolved is an instruction after preset expansion
type Resolved struct {
	// Preset is the preset name with its parameter ("translate:es"), or
	// empty for a free-text instruction
	Preset      string
	Instruction string
	// Language is set when the preset switches the script language
	Language *string
}
