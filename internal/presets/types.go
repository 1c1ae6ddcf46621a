package presets

// Preset is a named set of generation form values.
type Preset struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Topic      string `yaml:"topic"`
	GradeLevel string `yaml:"grade_level"`
	Locale     string `yaml:"locale"`
	Notes      string `yaml:"notes"`
}

// File is the layout of one presets YAML file.
type File struct {
	Presets []Preset `yaml:"presets"`
}
