package types

// DefaultProfileName is used when a profile has to be synthesized.
const DefaultProfileName = "default"

// Profile is a named selection of mods. Selected holds mod IDs (file names
// without extension).
type Profile struct {
	Active   bool     `yaml:"active"`
	Name     string   `yaml:"name"`
	Selected []string `yaml:"selected"`

	// FileName is the record's file name without extension; it is not persisted.
	FileName string `json:"-" yaml:"-"`
}

// IsSelected reports whether the mod id is part of the selection.
func (p *Profile) IsSelected(id string) bool {
	for _, s := range p.Selected {
		if s == id {
			return true
		}
	}
	return false
}
