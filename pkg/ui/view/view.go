// Package view flattens mods and profiles into the rows every renderer
// prints.
package view

import (
	"strings"

	"github.com/arthur-debert/modpatch/pkg/style"
	"github.com/arthur-debert/modpatch/pkg/types"
)

// Mod is the printable form of a mod.
type Mod struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Order      int         `json:"order"`
	State      style.State `json:"state"`
	Kind       string      `json:"kind"`
	Tags       []string    `json:"tags"`
	SystemTags []string    `json:"system_tags"`
	Files      int         `json:"files"`
	Logo       string      `json:"logo,omitempty"`
	Path       string      `json:"path"`
}

// Profile is the printable form of a profile.
type Profile struct {
	Name     string   `json:"name"`
	File     string   `json:"file"`
	Active   bool     `json:"active"`
	Selected []string `json:"selected"`
}

// Mods converts mods, keeping their order.
func Mods(mods []*types.Mod) []Mod {
	out := make([]Mod, 0, len(mods))
	for _, m := range mods {
		out = append(out, Mod{
			ID:         m.ID(),
			Name:       m.DisplayName(),
			Order:      m.Metadata.Order,
			State:      style.StateOf(m.Metadata),
			Kind:       m.File.Kind().String(),
			Tags:       nonNil(m.Metadata.Tags),
			SystemTags: nonNil(m.Metadata.SystemTags),
			Files:      len(m.Metadata.FilePaths),
			Logo:       m.LogoPath(),
			Path:       m.File.Path,
		})
	}
	return out
}

// Profiles converts profiles, keeping their order.
func Profiles(profiles []*types.Profile) []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, Profile{
			Name:     p.Name,
			File:     p.FileName,
			Active:   p.Active,
			Selected: nonNil(p.Selected),
		})
	}
	return out
}

// AllTags joins user and system tags for single-column display.
func (m Mod) AllTags() string {
	return strings.Join(append(append([]string{}, m.Tags...), m.SystemTags...), ", ")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
