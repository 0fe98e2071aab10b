// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/arthur-debert/modpatch/pkg/ui/view"
)

// Renderer provides JSON output for machine consumption
type Renderer struct {
	encoder *json.Encoder
}

// New creates a new JSON renderer
func New(output io.Writer) (*Renderer, error) {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &Renderer{encoder: encoder}, nil
}

// RenderMods encodes mods as a JSON array.
func (r *Renderer) RenderMods(mods []*types.Mod) error {
	return r.encoder.Encode(view.Mods(mods))
}

// RenderProfiles encodes profiles as a JSON array.
func (r *Renderer) RenderProfiles(profiles []*types.Profile) error {
	return r.encoder.Encode(view.Profiles(profiles))
}

// RenderError renders an error as JSON, with its code when it has one.
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(map[string]string{
		"error": err.Error(),
		"code":  string(errors.GetErrorCode(err)),
	})
}

// RenderMessage renders a simple message as JSON
func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
